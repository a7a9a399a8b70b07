//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider之后运行 `wire gen ./cmd/api` 重新生成wire_gen.go。
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
)

// infrastructureSet 存储、缓存、消息队列
var infrastructureSet = wire.NewSet(
	provideRepository,
	provideRedis,
	providePublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 图书用例
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
)

// securitySet 会话、防伪令牌、限流
var securitySet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideBlacklist,
	provideUsedTokenStore,
	provideCSRFManager,
	provideAuthMiddleware,
	provideRateLimiter,
)

// handlerSet HTTP处理器
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewAdminHandler,
	handler.NewAuthHandler,
)

// InitializeApp 初始化整个应用
// cfg由调用方加载（日志需要先于其他组件初始化）
// 返回的cleanup按创建的逆序关闭消息队列、Redis和数据库连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		securitySet,
		handlerSet,
		router.New,
		newApp,
	)
	return nil, nil, nil
}
