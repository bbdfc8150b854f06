package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/testutil"
)

func newLimitedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimitMiddleware(), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })
	return r
}

func hit(r http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testutil.Config()
	cfg.RateLimitPerMinute = 2 // burst of one
	config.Override(cfg)
	r := newLimitedEngine()

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1001"))
	// buckets are per client IP
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.2:1000"))
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	config.Override(testutil.Config())
	r := newLimitedEngine()

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1:1000"))
	}
}
