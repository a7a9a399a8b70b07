package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshelf/docs" // swagger文档注册
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// New 创建Gin引擎并注册全部路由
//
// 路由一览：
//
//	GET  /ping                        健康检查
//	GET  /metrics                     Prometheus指标（metrics.enabled）
//	GET  /swagger/*any                API文档（release模式不注册）
//	GET  /api/v1/books                公开列表
//	POST /api/v1/books                匿名提交（限流）
//	GET  /api/v1/books/widget         组件初始化数据
//	POST /admin/login                 后台登录
//	POST /admin/logout                后台登出
//	GET  /admin/books                 后台列表      ┐
//	GET  /admin/books/new             新增表单      │
//	GET  /admin/books/:id             编辑表单      │ manage_books
//	POST /admin/books                 新增          │
//	POST /admin/books/:id             编辑          │
//	POST /admin/books/bulk-delete     批量删除      ┘
func New(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	adminHandler *handler.AdminHandler,
	authHandler *handler.AuthHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.IPRateLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 生产环境不暴露文档
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 公开接口（前端组件，可能跨域嵌入）
	books := r.Group(handler.PublicBooksPath)
	books.Use(middleware.CORS(cfg.CORS))
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", middleware.RateLimit(limiter), bookHandler.SubmitBook)
		books.GET("/widget", bookHandler.Widget)
		books.OPTIONS("", func(c *gin.Context) { c.Status(204) })
	}

	// 后台
	admin := r.Group("/admin")
	{
		admin.POST("/login", authHandler.Login)
		admin.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)

		manage := admin.Group("/books")
		manage.Use(authMiddleware.RequireCapability(middleware.CapabilityManageBooks))
		{
			manage.GET("", adminHandler.List)
			manage.GET("/new", adminHandler.New)
			manage.GET("/:id", adminHandler.Get)
			manage.POST("", adminHandler.Add)
			manage.POST("/bulk-delete", adminHandler.BulkDelete)
			manage.POST("/:id", adminHandler.Edit)
		}
	}

	return r
}
