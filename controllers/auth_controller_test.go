package controllers_test

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/models"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/routes"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/testutil"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

func TestRegister(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)

	id := testutil.Register(t, r, "a@x.com", "p1")

	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "p1", user.PasswordHash)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "p1"))
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"mismatched passwords", map[string]string{"email": "a@x.com", "password": "p1", "verifiedPassword": "p2"}},
		{"missing email", map[string]string{"password": "p1", "verifiedPassword": "p1"}},
		{"missing password", map[string]string{"email": "a@x.com", "verifiedPassword": "p1"}},
		{"missing verification", map[string]string{"email": "a@x.com", "password": "p1"}},
		{"malformed email", map[string]string{"email": "nope", "password": "p1", "verifiedPassword": "p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.Do(t, r, http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)

	for _, pw := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		rr := testutil.Do(t, r, http.MethodPost, "/register", map[string]string{
			"email": "a@x.com", "password": pw, "verifiedPassword": pw,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		assert.Equal(t, 40004, testutil.Decode(t, rr, nil).Code)
	}

	pw := strings.Repeat("a", 72)
	testutil.Register(t, r, "a@x.com", pw)
	testutil.Login(t, r, "a@x.com", pw)
}

func TestRegisterDuplicateEmailIsServerError(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)

	testutil.Register(t, r, "a@x.com", "p1")
	rr := testutil.Do(t, r, http.MethodPost, "/register", map[string]string{
		"email": "A@x.com", "password": "p2", "verifiedPassword": "p2",
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotEmpty(t, testutil.Decode(t, rr, nil).Message)
}

func TestLoginSetsTokenCookie(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)

	id := testutil.Register(t, r, "a@x.com", "p1")
	rr := testutil.Do(t, r, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	cookie := testutil.Cookie(rr, "token")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 12*3600, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	claims, err := utils.ParseToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(id), 10), claims.Subject)
	assert.Equal(t, id, claims.UserID)
}

func TestLoginCookieSecureInProduction(t *testing.T) {
	db := testutil.Setup(t)
	cfg := testutil.Config()
	cfg.AppEnv = "production"
	config.Override(cfg)
	r := routes.SetupRouter(db)

	testutil.Register(t, r, "a@x.com", "p1")
	assert.True(t, testutil.Login(t, r, "a@x.com", "p1").Secure)
}

func TestLoginFailures(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)
	testutil.Register(t, r, "a@x.com", "p1")

	wrongPassword := testutil.Do(t, r, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "nope"})
	unknownEmail := testutil.Do(t, r, http.MethodPost, "/login", map[string]string{"email": "b@x.com", "password": "p1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Nil(t, testutil.Cookie(wrongPassword, "token"))

	missing := testutil.Do(t, r, http.MethodPost, "/login", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestLogoutClearsAndRevokesToken(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)
	_, cookie := testutil.Signup(t, r, "a@x.com")

	rr := testutil.Do(t, r, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	cleared := testutil.Cookie(rr, "token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// the old token no longer authenticates
	rr = testutil.Do(t, r, http.MethodPost, "/post", map[string]string{"title": "t", "content": "c"}, cookie)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// logging out without a cookie is harmless
	assert.Equal(t, http.StatusOK, testutil.Do(t, r, http.MethodPost, "/logout", nil).Code)
}

func TestListUsersOmitsPasswords(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)
	testutil.Register(t, r, "a@x.com", "p1")
	testutil.Register(t, r, "b@x.com", "p2")

	rr := testutil.Do(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var users []map[string]interface{}
	testutil.Decode(t, rr, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "a@x.com", users[0]["email"])
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "passwordHash")
	}
	assert.NotContains(t, rr.Body.String(), "$2a$")
}
