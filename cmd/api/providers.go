package main

import (
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	"github.com/xiebiao/bookshelf/pkg/csrf"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config *config.Config
	Engine *gin.Engine
}

func newApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{Config: cfg, Engine: engine}
}

// ========================================
// 自定义Provider
// ========================================
// 这些依赖需要从Config中取参数，或者在可选组件未启用时返回nil接口，
// Wire无法直接使用构造函数，所以手写Provider。

// provideRepository 按database.driver选择图书仓储
// memory驱动不连接数据库，进程退出即丢失数据，适合本地演示和测试
func provideRepository(cfg *config.Config) (book.Repository, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		zap.L().Warn("使用内存存储，数据不会持久化")
		return memory.NewBookRepository(), func() {}, nil
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return mysql.NewBookRepository(db), cleanup, nil
}

// provideRedis 创建Redis客户端，未启用时为nil
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if client != nil {
			_ = client.Close()
		}
	}
	return client, cleanup, nil
}

// provideSessionStore 会话记录与黑名单写入
// 注意：client为nil时必须返回nil接口，而不是包着nil指针的接口
func provideSessionStore(client *goredis.Client) handler.SessionStore {
	if client == nil {
		return nil
	}
	return redis.NewSessionStore(client)
}

// provideBlacklist 认证中间件使用的黑名单查询
func provideBlacklist(client *goredis.Client) middleware.TokenBlacklist {
	if client == nil {
		return nil
	}
	return redis.NewSessionStore(client)
}

// provideUsedTokenStore 后台表单一次性令牌，需要csrf.single_use且启用Redis
func provideUsedTokenStore(cfg *config.Config, client *goredis.Client) csrf.UsedTokenStore {
	if !cfg.CSRF.SingleUse || client == nil {
		return nil
	}
	return redis.NewUsedTokenStore(client)
}

func provideCSRFManager(cfg *config.Config, store csrf.UsedTokenStore) *csrf.Manager {
	return csrf.NewManager(cfg.CSRF.Secret, cfg.CSRF.TTL, store)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

func provideAuthMiddleware(jwtManager *jwt.Manager, blacklist middleware.TokenBlacklist, cfg *config.Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, blacklist, cfg.JWT.CookieName)
}

func provideRateLimiter(cfg *config.Config) *middleware.IPRateLimiter {
	return middleware.NewIPRateLimiter(cfg.RateLimit.SubmitRPS, cfg.RateLimit.Burst)
}

// providePublisher 图书事件发布者
// 未启用或连接失败时退化为NopPublisher，消息队列不可用不影响图书读写
func providePublisher(cfg *config.Config) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		zap.L().Warn("连接消息队列失败，事件将被丢弃", zap.Error(err))
		return mq.NopPublisher{}, func() {}, nil
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			zap.L().Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return mq.NewGuardedPublisher(publisher, newPublishBreaker()), cleanup, nil
}

// newPublishBreaker 消息发布熔断器：连续失败5次熔断30秒
func newPublishBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New("rabbitmq", circuitbreaker.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			zap.L().Warn("熔断器状态变化",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
}
