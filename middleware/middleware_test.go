package middleware

import (
	"EmotionTrackerGo/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupMiddleware(r)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("uid")+"/"+c.GetString("username"))
	})
	r.GET("/whoami", handlers...)
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTKey("secret")
	r := newRouter(AuthMiddleware())

	token, err := utils.GenerateToken("u1", "alice", time.Hour)
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/alice", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing credentials")

	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestRateLimiter(t *testing.T) {
	utils.SetJWTKey("secret")
	limiter := NewRateLimiter(2)
	r := newRouter(AuthMiddleware(), limiter.Middleware())

	alice, err := utils.GenerateToken("u1", "alice", time.Hour)
	require.NoError(t, err)
	bob, err := utils.GenerateToken("u2", "bob", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "Bearer "+alice).Code)

	// buckets are per user
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+bob).Code)
}

func TestRateLimiter_FallsBackToClientIP(t *testing.T) {
	r := newRouter(NewRateLimiter(1).Middleware())

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}
