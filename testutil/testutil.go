// Package testutil builds isolated configurations, databases and requests for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
)

// Secret signs every token issued under Config.
const Secret = "test-secret"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Config returns a configuration suited to tests: sqlite, no Redis, no rate limit.
func Config() config.AppConfig {
	return config.AppConfig{
		AppPort:        "0",
		AppEnv:         "test",
		JWTSecret:      Secret,
		TokenTTLHours:  12,
		CookieName:     "token",
		DBDriver:       "sqlite",
		AllowedOrigins: []string{"http://localhost:3000"},
		GinMode:        "test",
		LogLevel:       "silent",
	}
}

// Setup installs Config and returns a migrated in-memory database private to t.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	config.Override(Config())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := config.OpenDatabase("sqlite", dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, false))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Envelope is the decoded response body with the data left raw.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Do sends a JSON request to h and records the response.
func Do(t *testing.T, h http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// Decode parses the response envelope and, when out is non-nil, its data.
func Decode(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return env
}

// Cookie returns the named cookie set by the response, or nil.
func Cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Register creates an account and returns its id.
func Register(t *testing.T, h http.Handler, email, password string) uint {
	t.Helper()
	rr := Do(t, h, http.MethodPost, "/register", map[string]string{
		"email":            email,
		"password":         password,
		"verifiedPassword": password,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var data struct {
		UserID uint `json:"userId"`
	}
	Decode(t, rr, &data)
	require.NotZero(t, data.UserID)
	return data.UserID
}

// Login authenticates and returns the token cookie.
func Login(t *testing.T, h http.Handler, email, password string) *http.Cookie {
	t.Helper()
	rr := Do(t, h, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	c := Cookie(rr, "token")
	require.NotNil(t, c)
	return c
}

// Signup registers and logs in, returning the user id and token cookie.
func Signup(t *testing.T, h http.Handler, email string) (uint, *http.Cookie) {
	t.Helper()
	id := Register(t, h, email, "secret-"+email)
	return id, Login(t, h, email, "secret-"+email)
}
