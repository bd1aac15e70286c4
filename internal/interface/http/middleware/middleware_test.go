package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 1, Burst: 2})
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "桶已空")
	assert.True(t, rl.Allow("10.0.0.2"), "不同客户端互不影响")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "1秒后补充一个令牌")

	now = now.Add(limiterTTL + time.Minute)
	rl.Allow("10.0.0.3")
	assert.Len(t, rl.limiters, 1, "不活跃的限流器被清理")
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 1})
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowOrigins: []string{"https://app.example.com"}}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 预检
	r2 := gin.New()
	r2.Use(CORS(config.CORSConfig{AllowOrigins: []string{"*"}}))
	r2.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://any.example.com")
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
