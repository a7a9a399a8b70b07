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

// UpdateBookUseCase 编辑图书用例
// 目标不存在时视为成功(影响0行)，与存储层的更新语义一致
type UpdateBookUseCase struct {
	bookService book.Service
	publisher   mq.EventPublisher
}

// NewUpdateBookUseCase 创建编辑用例
func NewUpdateBookUseCase(bookService book.Service, publisher mq.EventPublisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
	}
}

// UpdateBookRequest 编辑请求DTO
type UpdateBookRequest struct {
	ID            uint
	Title         string
	Author        string
	PublishedYear int
}

// UpdateBookResponse 编辑结果
type UpdateBookResponse struct {
	Affected int64 `json:"affected"`
}

// Execute 执行编辑用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*UpdateBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", int64(req.ID)))

	if err := book.Validate(req.Title, req.Author, req.PublishedYear); err != nil {
		metrics.RecordCommand(CommandUpdate, metrics.ResultInvalid)
		return nil, err
	}

	affected, err := uc.bookService.UpdateBook(ctx, req.ID, req.Title, req.Author, req.PublishedYear)
	if err != nil {
		tracing.RecordError(span, err)
		metrics.RecordCommand(CommandUpdate, metrics.ResultError)
		return nil, err
	}
	metrics.RecordCommand(CommandUpdate, metrics.ResultSuccess)

	if affected > 0 {
		updated := book.NewBook(req.Title, req.Author, req.PublishedYear)
		updated.ID = req.ID
		publishEvent(ctx, uc.publisher, RoutingKeyUpdated, BookEvent{
			Event:      RoutingKeyUpdated,
			Book:       toBookItem(updated),
			OccurredAt: time.Now(),
		})
	}

	return &UpdateBookResponse{Affected: affected}, nil
}
