package book

import (
	"context"

	"github.com/xiebiao/bookshelf/pkg/pagination"
	"github.com/xiebiao/bookshelf/pkg/sanitize"
)

// Service 图书领域服务接口(图书记录的唯一写入口)
// 设计说明:
// 1. 写入前统一做字段规范化(清洗文本、年份取绝对值)
// 2. 业务校验(非空、年份范围)由Validate提供,是否调用由上层命令决定
// 3. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// InsertBook 规范化后插入,返回带ID的图书
	InsertBook(ctx context.Context, title, author string, year int) (*Book, error)

	// UpdateBook 规范化后按ID更新,返回影响行数
	// 目标不存在时返回(0, nil),调用方不能据此判断图书是否存在
	UpdateBook(ctx context.Context, id uint, title, author string, year int) (int64, error)

	// DeleteBooks 批量删除,返回实际删除行数
	// ids为空(或只含0)时直接返回0,不访问存储
	DeleteBooks(ctx context.Context, ids []uint) (int64, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询图书列表,page/pageSize小于1时按1处理
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// InsertBook 插入图书
func (s *service) InsertBook(ctx context.Context, title, author string, year int) (*Book, error) {
	b := NewBook(title, author, year)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, id uint, title, author string, year int) (int64, error) {
	b := NewBook(title, author, year)
	b.ID = id
	return s.repo.Update(ctx, b)
}

// DeleteBooks 批量删除图书
func (s *service) DeleteBooks(ctx context.Context, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteByIDs(ctx, ids)
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	if id == 0 {
		return nil, ErrBookNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Page, params.PageSize = pagination.Normalize(params.Page, params.PageSize, 0)
	params.SortBy, params.Order = NormalizeSort(params.SortBy, params.Order)
	return s.repo.List(ctx, params)
}

// =========================================
// 业务规则校验
// =========================================

// Validate 校验图书字段
// 书名、作者按清洗后的结果判断非空;年份按原始输入判断范围(负数不会被取绝对值后放行)
func Validate(title, author string, year int) error {
	if sanitize.Text(title) == "" {
		return ErrInvalidTitle
	}
	if sanitize.Text(author) == "" {
		return ErrInvalidAuthor
	}
	if year < MinYear || year > MaxYear {
		return ErrInvalidYear
	}
	return nil
}

// uniqueIDs 去重并剔除0(0永远不是合法ID)
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
