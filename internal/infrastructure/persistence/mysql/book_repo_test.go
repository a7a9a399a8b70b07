package mysql

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// newTestDB 内存SQLite，单连接保证所有语句落在同一个库上
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedBooks(t *testing.T, repo book.Repository, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Create(context.Background(), &book.Book{
			Title:         fmt.Sprintf("Title %02d", i),
			Author:        fmt.Sprintf("Author %d", i%3),
			PublishedYear: 1990 + i%5,
		}))
	}
}

func bookIDs(books []*book.Book) []uint {
	out := make([]uint, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestBookRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))

	b := &book.Book{Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965}
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, uint(1), b.ID)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo, 3)

	// 删除当前最大ID后再插入，自增值不回退
	n, err := repo.DeleteByIDs(ctx, []uint{3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b := &book.Book{Title: "New", Author: "A", PublishedYear: 2020}
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, uint(4), b.ID)

	_, err = repo.FindByID(ctx, 3)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo, 1)

	affected, err := repo.Update(ctx, &book.Book{ID: 1, Title: "Emma", Author: "Jane Austen", PublishedYear: 1815})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Emma", got.Title)
	assert.Equal(t, 1815, got.PublishedYear)

	affected, err = repo.Update(ctx, &book.Book{ID: 99, Title: "Ghost", Author: "Nobody", PublishedYear: 2000})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestBookRepository_DeleteByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo, 5)

	n, err := repo.DeleteByIDs(ctx, []uint{2, 4, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []uint{5, 3, 1}, bookIDs(books))
}

func TestBookRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo, 25)

	tests := []struct {
		name   string
		params book.ListParams
		want   []uint
	}{
		{"第一页", book.ListParams{Page: 1, PageSize: 10}, []uint{25, 24, 23, 22, 21, 20, 19, 18, 17, 16}},
		{"第三页", book.ListParams{Page: 3, PageSize: 10}, []uint{5, 4, 3, 2, 1}},
		{"超出范围", book.ListParams{Page: 4, PageSize: 10}, []uint{}},
		{"按书名升序", book.ListParams{Page: 1, PageSize: 3, SortBy: book.SortByTitle, Order: book.OrderAsc}, []uint{1, 2, 3}},
		// 年份=1990+i%5，1990对应i=5,10,15,20,25，同值按id降序
		{"按年份升序同值按ID降序", book.ListParams{Page: 1, PageSize: 3, SortBy: book.SortByPublishedYear, Order: book.OrderAsc}, []uint{25, 20, 15}},
		{"非法排序字段回落默认", book.ListParams{Page: 1, PageSize: 2, SortBy: "1; DROP TABLE books", Order: "x"}, []uint{25, 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := repo.List(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, int64(25), total)
			assert.Equal(t, tt.want, bookIDs(books))
		})
	}
}

func TestBookRepository_StorageError(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	require.NoError(t, db.Migrator().DropTable(&BookModel{}))

	_, _, err := repo.List(context.Background(), book.ListParams{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDatabaseError, apperrors.GetAppError(err).Code)
}

func TestNewDB_SQLite(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			SQLitePath:   t.TempDir() + "/bookshelf.db",
			MaxIdleConns: 1,
		},
	}

	db, err := NewDB(cfg)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("books"))

	cfg.Database.Driver = config.DriverMemory
	_, err = NewDB(cfg)
	assert.Error(t, err)
}
