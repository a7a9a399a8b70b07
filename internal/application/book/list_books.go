package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/pagination"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 分页窗口由存储层计算，这里补齐分页元信息
// 2. 总页数规则：max(1, ceil(total/perPage))，公开接口与后台列表一致
// 3. 页码超出范围时返回空列表，total仍是真实总数
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page    int    // 页码(从1开始)
	PerPage int    // 每页数量
	SortBy  string // 排序字段(id, title, published_year)
	Order   string // 排序方向(asc, desc)
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	Books []BookItem      `json:"books"`
	Meta  pagination.Meta `json:"meta"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer span.End()

	page, perPage := pagination.Normalize(req.Page, req.PerPage, 0)

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     page,
		PageSize: perPage,
		SortBy:   req.SortBy,
		Order:    req.Order,
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	list := make([]BookItem, len(books))
	for i, b := range books {
		list[i] = toBookItem(b)
	}

	return &ListBooksResponse{
		Books: list,
		Meta:  pagination.NewMeta(total, page, perPage),
	}, nil
}
