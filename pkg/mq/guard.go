package mq

import (
	"context"

	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
)

// GuardedPublisher 带熔断保护的发布者
// Broker不可用时连续发布失败会触发熔断，熔断期间直接返回ErrOpenState，
// 写请求不再为每次发布等待连接超时
type GuardedPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedPublisher 用熔断器包装发布者
func NewGuardedPublisher(next EventPublisher, breaker *circuitbreaker.CircuitBreaker) *GuardedPublisher {
	return &GuardedPublisher{next: next, breaker: breaker}
}

// Publish 在熔断器保护下发布消息
func (p *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(ctx, routingKey, message)
	})
}
