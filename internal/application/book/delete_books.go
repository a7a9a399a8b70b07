package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/mq"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// DeleteBooksUseCase 批量删除用例
// 不存在的ID被忽略，删除0行也算成功
type DeleteBooksUseCase struct {
	bookService book.Service
	publisher   mq.EventPublisher
}

// NewDeleteBooksUseCase 创建批量删除用例
func NewDeleteBooksUseCase(bookService book.Service, publisher mq.EventPublisher) *DeleteBooksUseCase {
	return &DeleteBooksUseCase{
		bookService: bookService,
		publisher:   publisher,
	}
}

// DeleteBooksResponse 删除结果
type DeleteBooksResponse struct {
	Deleted int64 `json:"deleted"`
}

// Execute 执行批量删除
func (uc *DeleteBooksUseCase) Execute(ctx context.Context, ids []uint) (*DeleteBooksResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBooks")
	defer span.End()
	span.SetAttributes(attribute.Int("book.requested", len(ids)))

	deleted, err := uc.bookService.DeleteBooks(ctx, ids)
	if err != nil {
		tracing.RecordError(span, err)
		metrics.RecordCommand(CommandDelete, metrics.ResultError)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("book.deleted", deleted))
	metrics.RecordCommand(CommandDelete, metrics.ResultSuccess)
	metrics.AddDeleted(deleted)

	if deleted > 0 {
		publishEvent(ctx, uc.publisher, RoutingKeyDeleted, BooksDeletedEvent{
			Event:      RoutingKeyDeleted,
			IDs:        ids,
			Deleted:    deleted,
			OccurredAt: time.Now(),
		})
	}

	return &DeleteBooksResponse{Deleted: deleted}, nil
}
