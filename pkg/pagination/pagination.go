// Package pagination 分页参数计算
//
// 约定：
//   - 页码从1开始，page与perPage小于1时按1处理
//   - offset = (page-1) * perPage
//   - 总页数 = max(1, ceil(total/perPage))，空表也显示1页
package pagination

// Normalize 规范化页码与每页条数
// maxPerPage<=0表示不设上限
func Normalize(page, perPage, maxPerPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// Offset 计算查询偏移量
func Offset(page, perPage int) int {
	page, perPage = Normalize(page, perPage, 0)
	return (page - 1) * perPage
}

// TotalPages 计算总页数
// 空结果集返回1，列表页与前端组件共用这一条规则
func TotalPages(total int64, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	pages := int(total / int64(perPage))
	if total%int64(perPage) != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Meta 分页元信息
type Meta struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

// NewMeta 根据总数与当前窗口构建分页元信息
func NewMeta(total int64, page, perPage int) Meta {
	return Meta{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		TotalPages:  TotalPages(total, perPage),
	}
}

// Empty 查询失败时返回的默认元信息（单页、空结果）
func Empty(perPage int) Meta {
	return Meta{
		Total:       0,
		PerPage:     perPage,
		CurrentPage: 1,
		TotalPages:  1,
	}
}
