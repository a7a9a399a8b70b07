package book_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
)

// spyRepo 记录DeleteByIDs调用，其余方法委托给内存仓储
type spyRepo struct {
	*memory.BookRepository
	deleteCalls int
	lastIDs     []uint
	listParams  book.ListParams
	failWith    error
}

func (r *spyRepo) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	r.deleteCalls++
	r.lastIDs = ids
	return r.BookRepository.DeleteByIDs(ctx, ids)
}

func (r *spyRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.listParams = params
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	return r.BookRepository.List(ctx, params)
}

func newService() (book.Service, *spyRepo) {
	repo := &spyRepo{BookRepository: memory.NewBookRepository()}
	return book.NewService(repo), repo
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		author  string
		year    int
		wantErr error
	}{
		{"合法输入", "Dune", "Frank Herbert", 1965, nil},
		{"年份下限", "A", "B", 1, nil},
		{"年份上限", "A", "B", 9999, nil},
		{"书名为空", "", "Frank Herbert", 1965, book.ErrInvalidTitle},
		{"书名只有空白", "  \t\n ", "Frank Herbert", 1965, book.ErrInvalidTitle},
		{"书名只有标签", "<b></b>", "Frank Herbert", 1965, book.ErrInvalidTitle},
		{"作者为空", "Dune", "", 1965, book.ErrInvalidAuthor},
		{"年份为0", "Dune", "Frank Herbert", 0, book.ErrInvalidYear},
		{"年份为负", "Dune", "Frank Herbert", -1965, book.ErrInvalidYear},
		{"年份超上限", "Dune", "Frank Herbert", 10000, book.ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := book.Validate(tt.title, tt.author, tt.year)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewBook_Normalizes(t *testing.T) {
	b := book.NewBook("  <script>alert(1)</script>Dune  ", "Frank\n\tHerbert", -1965)

	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Frank Herbert", b.Author)
	assert.Equal(t, 1965, b.PublishedYear)
	assert.Zero(t, b.ID)

	long := book.NewBook(strings.Repeat("书", 300), "x", 1)
	assert.Equal(t, book.MaxTextLength, len([]rune(long.Title)))
}

func TestService_InsertBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	first, err := svc.InsertBook(ctx, "Dune", "Frank Herbert", 1965)
	require.NoError(t, err)
	second, err := svc.InsertBook(ctx, " Emma ", "Jane Austen", 1815)
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)

	got, err := svc.GetBook(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", got.Title)
	assert.Equal(t, 1815, got.PublishedYear)
}

func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	b, err := svc.InsertBook(ctx, "Dune", "Frank Herbert", 1965)
	require.NoError(t, err)

	t.Run("更新已存在的图书", func(t *testing.T) {
		affected, err := svc.UpdateBook(ctx, b.ID, "Dune Messiah", " Frank Herbert ", -1969)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		got, err := svc.GetBook(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", got.Title)
		assert.Equal(t, "Frank Herbert", got.Author)
		assert.Equal(t, 1969, got.PublishedYear)
	})

	t.Run("目标不存在不报错", func(t *testing.T) {
		affected, err := svc.UpdateBook(ctx, 999, "X", "Y", 2000)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestService_DeleteBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("空列表不访问存储", func(t *testing.T) {
		svc, repo := newService()

		n, err := svc.DeleteBooks(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = svc.DeleteBooks(ctx, []uint{0, 0})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, repo.deleteCalls)
	})

	t.Run("去重并忽略不存在的ID", func(t *testing.T) {
		svc, repo := newService()
		a, _ := svc.InsertBook(ctx, "A", "a", 2001)
		b, _ := svc.InsertBook(ctx, "B", "b", 2002)
		_, _ = svc.InsertBook(ctx, "C", "c", 2003)

		n, err := svc.DeleteBooks(ctx, []uint{a.ID, b.ID, a.ID, 999})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, []uint{a.ID, b.ID, 999}, repo.lastIDs)
		assert.Equal(t, 1, repo.Count())
	})
}

func TestService_GetBook(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetBook(context.Background(), 0)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = svc.GetBook(context.Background(), 42)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestService_ListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("参数规范化", func(t *testing.T) {
		svc, repo := newService()

		_, _, err := svc.ListBooks(ctx, book.ListParams{Page: -3, PageSize: 0, SortBy: "author; DROP", Order: "sideways"})
		require.NoError(t, err)
		assert.Equal(t, book.ListParams{Page: 1, PageSize: 1, SortBy: book.SortByID, Order: book.OrderDesc}, repo.listParams)
	})

	t.Run("存储错误透传", func(t *testing.T) {
		svc, repo := newService()
		repo.failWith = errors.New("connection refused")

		_, _, err := svc.ListBooks(ctx, book.ListParams{Page: 1, PageSize: 10})
		assert.Error(t, err)
	})
}
