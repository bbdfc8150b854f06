package utils

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/testutil"
)

func TestGenerateAndParseToken(t *testing.T) {
	config.Override(testutil.Config())

	token, issued, err := GenerateToken(42, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.Override(testutil.Config())

	token, _, err := GenerateToken(1, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	config.Override(testutil.Config())

	token, _, err := GenerateToken(1, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	flip := "A"
	if strings.HasPrefix(parts[2], "A") {
		flip = "B"
	}
	parts[2] = flip + parts[2][1:]
	_, err = ParseToken(strings.Join(parts, "."))
	assert.Error(t, err)

	cfg := testutil.Config()
	cfg.JWTSecret = "another-secret"
	config.Override(cfg)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedAndMismatchedSubject(t *testing.T) {
	config.Override(testutil.Config())

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(s)
	assert.Error(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 2,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(3),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err = forged.SignedString([]byte(testutil.Secret))
	require.NoError(t, err)
	_, err = ParseToken(s)
	assert.Error(t, err)
}
