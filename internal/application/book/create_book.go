package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/mq"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// CreateBookUseCase 新增图书用例
// 设计说明:
// 1. 公开提交与后台新增共用同一用例，校验规则一致
// 2. 校验失败不产生任何写入
// 3. 写入成功后发布book.created事件
type CreateBookUseCase struct {
	bookService book.Service
	publisher   mq.EventPublisher
}

// NewCreateBookUseCase 创建新增用例
func NewCreateBookUseCase(bookService book.Service, publisher mq.EventPublisher) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
	}
}

// CreateBookRequest 新增请求DTO(字段为未清洗的原始输入)
type CreateBookRequest struct {
	Title         string
	Author        string
	PublishedYear int
}

// Execute 执行新增用例
// 返回的图书字段是规范化后实际入库的值
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookItem, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBook")
	defer span.End()

	if err := book.Validate(req.Title, req.Author, req.PublishedYear); err != nil {
		metrics.RecordCommand(CommandCreate, metrics.ResultInvalid)
		return nil, err
	}

	b, err := uc.bookService.InsertBook(ctx, req.Title, req.Author, req.PublishedYear)
	if err != nil {
		tracing.RecordError(span, err)
		metrics.RecordCommand(CommandCreate, metrics.ResultError)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.WrapDB(err, "创建图书失败")
	}

	span.SetAttributes(attribute.Int64("book.id", int64(b.ID)))
	metrics.RecordCommand(CommandCreate, metrics.ResultSuccess)

	item := toBookItem(b)
	publishEvent(ctx, uc.publisher, RoutingKeyCreated, BookEvent{
		Event:      RoutingKeyCreated,
		Book:       item,
		OccurredAt: time.Now(),
	})

	return &item, nil
}
