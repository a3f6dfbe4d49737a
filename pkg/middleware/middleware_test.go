package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripvote/pkg/utils"
)

func setupTestRouter(t *testing.T, secret []byte) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(TraceIDMiddleware(), CORSMiddleware(), RequestLogger(zap.NewNop()))
	r.GET("/me", JWTAuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UsernameKey))
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	secret := []byte("secret")
	r := setupTestRouter(t, secret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	token, err := utils.CreateToken(secret, "bob", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := setupTestRouter(t, []byte("secret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/me", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTraceIDPropagates(t *testing.T) {
	r := setupTestRouter(t, []byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Trace-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Trace-ID"))
}
