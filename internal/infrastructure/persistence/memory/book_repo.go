// Package memory 图书仓储的内存实现
// 用于本地演示(database.driver=memory)和上层测试,进程退出后数据丢失
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// BookRepository 内存图书仓储
// nextID只增不减,删除后的ID不会被复用
type BookRepository struct {
	mu     sync.RWMutex
	books  map[uint]book.Book
	nextID uint
}

// NewBookRepository 创建内存仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{
		books:  make(map[uint]book.Book),
		nextID: 1,
	}
}

// Create 创建图书并分配ID
func (r *BookRepository) Create(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.nextID
	r.nextID++
	r.books[b.ID] = *b
	return nil
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

// Update 覆盖已存在的图书,不存在时影响0行
func (r *BookRepository) Update(_ context.Context, b *book.Book) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return 0, nil
	}
	r.books[b.ID] = *b
	return 1, nil
}

// DeleteByIDs 批量删除,返回实际删除数
func (r *BookRepository) DeleteByIDs(_ context.Context, ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.books[id]; ok {
			delete(r.books, id)
			deleted++
		}
	}
	return deleted, nil
}

// List 排序后取分页窗口
func (r *BookRepository) List(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.mu.RLock()
	all := make([]book.Book, 0, len(r.books))
	for _, b := range r.books {
		all = append(all, b)
	}
	r.mu.RUnlock()

	sortBy, order := book.NormalizeSort(params.SortBy, params.Order)
	sort.Slice(all, func(i, j int) bool {
		return less(all[i], all[j], sortBy, order)
	})

	total := int64(len(all))
	offset := pagination.Offset(params.Page, params.PageSize)
	if offset < 0 || offset >= len(all) || params.PageSize < 1 {
		return []*book.Book{}, total, nil
	}
	end := offset + params.PageSize
	if end > len(all) {
		end = len(all)
	}

	out := make([]*book.Book, 0, end-offset)
	for i := offset; i < end; i++ {
		b := all[i]
		out = append(out, &b)
	}
	return out, total, nil
}

// Count 当前记录数(测试辅助)
func (r *BookRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

// less 排序比较,相同值按ID降序
func less(a, b book.Book, sortBy, order string) bool {
	var cmp int
	switch sortBy {
	case book.SortByTitle:
		cmp = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case book.SortByPublishedYear:
		cmp = a.PublishedYear - b.PublishedYear
	default:
		cmp = int(a.ID) - int(b.ID)
	}

	if cmp == 0 {
		return a.ID > b.ID
	}
	if order == book.OrderAsc {
		return cmp < 0
	}
	return cmp > 0
}
