package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/csrf"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

func newEngine(mode string, metricsEnabled bool) *gin.Engine {
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: mode, AdminListPath: "/admin/books"},
		JWT:     config.JWTConfig{Secret: "s", AccessTokenExpire: time.Hour, CookieName: "bookshelf_session"},
		Books:   config.BooksConfig{PublicPerPage: 10, AdminPerPage: 20},
		Metrics: config.MetricsConfig{Enabled: metricsEnabled, Path: "/metrics"},
		CORS:    config.CORSConfig{AllowOrigins: []string{"*"}},
	}

	svc := book.NewService(memory.NewBookRepository())
	publisher := mq.NopPublisher{}
	create := appbook.NewCreateBookUseCase(svc, publisher)
	list := appbook.NewListBooksUseCase(svc)
	nonces := csrf.NewManager("c", time.Hour, nil)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)

	return New(
		cfg,
		handler.NewBookHandler(create, list, nonces, cfg),
		handler.NewAdminHandler(create, appbook.NewUpdateBookUseCase(svc, publisher),
			appbook.NewDeleteBooksUseCase(svc, publisher), appbook.NewGetBookUseCase(svc), list, nonces, cfg),
		handler.NewAuthHandler(cfg, jwtManager, nil),
		middleware.NewAuthMiddleware(jwtManager, nil, cfg.JWT.CookieName),
		middleware.NewIPRateLimiter(0, 0),
	)
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPing(t *testing.T) {
	w := get(newEngine(gin.TestMode, false), "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestMetricsRoute(t *testing.T) {
	r := newEngine(gin.TestMode, true)
	get(r, "/api/v1/books")

	w := get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	assert.Equal(t, http.StatusNotFound, get(newEngine(gin.TestMode, false), "/metrics").Code)
}

func TestSwaggerRoute(t *testing.T) {
	w := get(newEngine(gin.TestMode, false), "/swagger/doc.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bookshelf API")

	// release模式不暴露文档
	r := newEngine(gin.ReleaseMode, false)
	gin.SetMode(gin.TestMode)
	assert.Equal(t, http.StatusNotFound, get(r, "/swagger/doc.json").Code)
}

func TestPublicPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	newEngine(gin.TestMode, false).ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
