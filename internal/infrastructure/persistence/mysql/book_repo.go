package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// bookRepository 图书仓储实现(MySQL/SQLite)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库错误统一包装为StorageError(ErrCodeDatabaseError)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 按ID覆盖三个字段
// 使用map更新，零值字段也会写入；目标不存在时RowsAffected为0
// 注意：MySQL在新旧值完全相同时同样报告0行
func (r *bookRepository) Update(ctx context.Context, b *book.Book) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":          b.Title,
			"author":         b.Author,
			"published_year": b.PublishedYear,
		})

	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "更新图书失败")
	}
	return result.RowsAffected, nil
}

// DeleteByIDs 批量物理删除
// DELETE FROM books WHERE id IN (...)
func (r *bookRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&BookModel{})
	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "删除图书失败")
	}
	return result.RowsAffected, nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	// 总数是全表行数，与当前页窗口无关
	if err := r.db.WithContext(ctx).Model(&BookModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书总数失败")
	}

	offset := pagination.Offset(params.Page, params.PageSize)
	err := r.db.WithContext(ctx).
		Clauses(orderBy(params.SortBy, params.Order)).
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		PublishedYear: model.PublishedYear,
	}
}
