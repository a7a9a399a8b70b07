package mysql

import (
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// orderColumns 排序字段白名单(字段名直接进入SQL，不能来自用户输入)
var orderColumns = map[string]string{
	book.SortByID:            "id",
	book.SortByTitle:         "title",
	book.SortByPublishedYear: "published_year",
}

// orderBy 构建ORDER BY子句
// 非id排序时追加id DESC，保证分页窗口稳定
func orderBy(sortBy, order string) clause.OrderBy {
	sortBy, order = book.NormalizeSort(sortBy, order)

	columns := []clause.OrderByColumn{{
		Column: clause.Column{Name: orderColumns[sortBy]},
		Desc:   order == book.OrderDesc,
	}}
	if sortBy != book.SortByID {
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: "id"},
			Desc:   true,
		})
	}
	return clause.OrderBy{Columns: columns}
}
