package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

// =========================================
// 限流
// =========================================

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	require.True(t, limiter.Enabled())

	r := gin.New()
	r.POST("/submit", RateLimit(limiter), ok)

	from := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = ip + ":12345"
		return req
	}

	assert.Equal(t, http.StatusOK, perform(r, from("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, perform(r, from("10.0.0.1")).Code)

	w := perform(r, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"`+apperrors.ErrTooManyRequests.Message+`"}`, w.Body.String())

	// 不同IP各自独立计数
	assert.Equal(t, http.StatusOK, perform(r, from("10.0.0.2")).Code)
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	clock := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return clock }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.Len())

	clock = clock.Add(2 * time.Minute)
	assert.True(t, limiter.Allow("10.0.0.2"))

	// 10.0.0.1空闲超过limiterIdleTTL被回收，10.0.0.2仍在窗口内
	clock = clock.Add(limiterIdleTTL - time.Minute)
	assert.True(t, limiter.Allow("10.0.0.3"))
	assert.Equal(t, 2, limiter.Len())

	// 被回收的IP重新拿到满桶
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.Equal(t, 3, limiter.Len())
}

func TestRateLimit_Disabled(t *testing.T) {
	limiter := NewIPRateLimiter(0, 0)
	assert.False(t, limiter.Enabled())

	r := gin.New()
	r.POST("/submit", RateLimit(limiter), ok)
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, perform(r, httptest.NewRequest(http.MethodPost, "/submit", nil)).Code)
	}
}

// =========================================
// CORS
// =========================================

func TestCORS(t *testing.T) {
	preflight := func(r *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/books", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return perform(r, req)
	}
	newEngine := func(origins ...string) *gin.Engine {
		r := gin.New()
		r.Use(CORS(config.CORSConfig{AllowOrigins: origins}))
		r.GET("/books", ok)
		r.OPTIONS("/books", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	t.Run("允许所有来源", func(t *testing.T) {
		w := preflight(newEngine("*"), "https://blog.example.com")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("白名单", func(t *testing.T) {
		r := newEngine("https://blog.example.com")
		w := preflight(r, "https://blog.example.com")
		assert.Equal(t, "https://blog.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = preflight(r, "https://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("未配置来源", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Origin", "https://blog.example.com")
		w := perform(newEngine(), req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

// =========================================
// 认证
// =========================================

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return f.revoked[token], f.err
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	blacklist := &fakeBlacklist{revoked: map[string]bool{}}
	auth := NewAuthMiddleware(manager, blacklist, "session")

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUsername(c))
	})
	r.GET("/books", auth.RequireCapability(CapabilityManageBooks), ok)

	admin, err := manager.GenerateToken("admin", []string{CapabilityManageBooks})
	require.NoError(t, err)
	viewer, err := manager.GenerateToken("viewer", nil)
	require.NoError(t, err)

	code := func(w *httptest.ResponseRecorder) int {
		var body struct {
			Code int `json:"code"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Code
	}

	t.Run("缺少Token", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, code(w))
	})

	t.Run("Cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: admin.Token})
		w := perform(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Body.String())
	})

	t.Run("Bearer头", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := perform(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "viewer", w.Body.String())
	})

	t.Run("伪造Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := perform(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeInvalidToken, code(w))
	})

	t.Run("过期Token", func(t *testing.T) {
		expired, err := jwt.NewManager("secret", -time.Minute).GenerateToken("admin", nil)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired.Token)
		w := perform(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeTokenExpired, code(w))
	})

	t.Run("缺少权限返回403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: viewer.Token})
		w := perform(r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.ErrCodeForbidden, code(w))

		req = httptest.NewRequest(http.MethodGet, "/books", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: admin.Token})
		assert.Equal(t, http.StatusOK, perform(r, req).Code)
	})

	t.Run("黑名单", func(t *testing.T) {
		blacklist.revoked[admin.Token] = true
		defer delete(blacklist.revoked, admin.Token)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: admin.Token})
		w := perform(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeInvalidToken, code(w))
	})

	t.Run("黑名单查询失败", func(t *testing.T) {
		blacklist.err = &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "缓存服务错误", Err: errors.New("dial tcp")}
		defer func() { blacklist.err = nil }()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: admin.Token})
		w := perform(r, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetClaims_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetUsername(c))
	assert.Empty(t, GetToken(c))
	assert.False(t, GetClaims(c).Can(CapabilityManageBooks))
}

// =========================================
// 日志、恢复、指标
// =========================================

func TestLogger_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	r.GET("/ping", ok)

	w := perform(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = perform(r, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := perform(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrCodeInternal, body.Code)
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/books/:id", ok)

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/books/:id", "200"))
	perform(r, httptest.NewRequest(http.MethodGet, "/books/1", nil))
	perform(r, httptest.NewRequest(http.MethodGet, "/books/2", nil))
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/books/:id", "200"))
	assert.Equal(t, 2.0, after-before)

	unmatched := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	perform(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}
