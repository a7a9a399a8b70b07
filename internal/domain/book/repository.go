package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL/SQLite、内存)
// 2. 仓储只负责持久化,不做清洗和业务校验
// 3. 每个方法对应一条独立语句,不跨语句开启事务
type Repository interface {
	// Create 创建图书,成功后回填自增ID
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 按ID覆盖书名、作者、出版年份
	// 目标不存在时影响0行,不视为错误
	Update(ctx context.Context, book *Book) (int64, error)

	// DeleteByIDs 批量物理删除,返回实际删除的行数
	// 不存在的ID被忽略
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)

	// List 分页查询,返回当前页数据与全表总数
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// 可排序字段
const (
	SortByID            = "id"
	SortByTitle         = "title"
	SortByPublishedYear = "published_year"
)

// 排序方向
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	SortBy   string // 排序字段(id, title, published_year)
	Order    string // 排序方向(asc, desc)
}

// SortableColumns 后台列表可排序的列
func SortableColumns() []string {
	return []string{SortByTitle, SortByPublishedYear}
}

// NormalizeSort 规范化排序参数
// 未知字段回落到id,未知方向回落到desc
func NormalizeSort(sortBy, order string) (string, string) {
	switch sortBy {
	case SortByID, SortByTitle, SortByPublishedYear:
	default:
		sortBy = SortByID
	}
	switch order {
	case OrderAsc, OrderDesc:
	default:
		order = OrderDesc
	}
	return sortBy, order
}
