package book

import (
	"github.com/xiebiao/bookshelf/pkg/sanitize"
)

// 字段约束
const (
	MaxTextLength = sanitize.MaxTextLength // 书名、作者最大字符数
	MinYear       = 1                      // 出版年份下限
	MaxYear       = 9999                   // 出版年份上限
)

// Book 图书实体
// ID由存储层在创建时分配，之后不可修改；删除后不会复用
type Book struct {
	ID            uint
	Title         string
	Author        string
	PublishedYear int
}

// NewBook 创建图书（字段经过规范化）
// 规范化只做清洗与类型修正，不做业务校验：
// - 书名、作者：去标签、折叠空白、去首尾空白、截断到255字符
// - 出版年份：取绝对值
func NewBook(title, author string, year int) *Book {
	b := &Book{}
	b.SetFields(title, author, year)
	return b
}

// SetFields 以规范化后的值覆盖全部可变字段
func (b *Book) SetFields(title, author string, year int) {
	b.Title = sanitize.Text(title)
	b.Author = sanitize.Text(author)
	b.PublishedYear = sanitize.Year(year)
}
