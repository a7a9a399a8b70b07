package book

import (
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/sanitize"
)

// tracerName 应用层Span所属的Tracer
const tracerName = "bookshelf/application/book"

// 命令名(metrics标签)
const (
	CommandCreate = "create"
	CommandUpdate = "update"
	CommandDelete = "delete"
)

// BookItem 图书输出DTO
type BookItem struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
}

// toBookItem 领域实体 → 输出DTO
func toBookItem(b *book.Book) BookItem {
	return BookItem{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
	}
}

// Escaped 返回文本字段经过HTML转义的副本，用于嵌入页面的公开接口
func (i BookItem) Escaped() BookItem {
	i.Title = sanitize.EscapeHTML(i.Title)
	i.Author = sanitize.EscapeHTML(i.Author)
	return i
}
