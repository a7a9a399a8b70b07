package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/mq"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// 领域事件路由键
const (
	RoutingKeyCreated = "book.created"
	RoutingKeyUpdated = "book.updated"
	RoutingKeyDeleted = "book.deleted"
)

// BookEvent 图书创建/更新事件
type BookEvent struct {
	Event      string    `json:"event"`
	Book       BookItem  `json:"book"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BooksDeletedEvent 批量删除事件
type BooksDeletedEvent struct {
	Event      string    `json:"event"`
	IDs        []uint    `json:"ids"`     // 请求删除的ID
	Deleted    int64     `json:"deleted"` // 实际删除的行数
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent 发布领域事件
// 事件是通知性质的，发布失败只记录日志，不影响已完成的写入
func publishEvent(ctx context.Context, publisher mq.EventPublisher, routingKey string, event interface{}) {
	err := publisher.Publish(ctx, routingKey, event)
	metrics.RecordPublish(routingKey, err)
	if err != nil {
		zap.L().Warn("领域事件发布失败",
			zap.String("routing_key", routingKey),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
	}
}
