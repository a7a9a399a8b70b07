package dto

import (
	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// =========================================
// 公开接口（前端组件）
// =========================================

// SubmitBookRequest 匿名提交图书（表单编码）
// 数值字段按字符串接收，由handler按十进制取数字前缀转换（非数字按0处理，随后在校验中被拒绝）
type SubmitBookRequest struct {
	Nonce         string `form:"nonce" example:"eyJhbGciOi..."`
	Title         string `form:"title" example:"三体"`
	Author        string `form:"author" example:"刘慈欣"`
	PublishedYear string `form:"published_year" example:"2006"`
}

// SubmitBookResponse 提交成功响应，文本字段已做HTML转义
type SubmitBookResponse struct {
	Message string           `json:"message" example:"Book added"`
	Book    appbook.BookItem `json:"book"`
}

// ListBooksResponse 公开列表响应
type ListBooksResponse struct {
	Books []appbook.BookItem `json:"books"`
	Meta  pagination.Meta    `json:"meta"`
}

// WidgetResponse 前端组件初始化数据
type WidgetResponse struct {
	AjaxURL string `json:"ajax_url" example:"/api/v1/books"`
	Nonce   string `json:"nonce"`
	PerPage int    `json:"per_page" example:"10"`
}

// =========================================
// 后台
// =========================================

// AdminBookForm 后台新增/编辑表单
type AdminBookForm struct {
	Nonce         string `form:"nonce"`
	Title         string `form:"title"`
	Author        string `form:"author"`
	PublishedYear string `form:"published_year"`
}

// BulkDeleteForm 后台批量删除表单
type BulkDeleteForm struct {
	Nonce   string   `form:"nonce"`
	BookIDs []string `form:"book_ids[]"`
}

// AdminListQuery 后台列表查询参数
type AdminListQuery struct {
	Paged   string `form:"paged"`
	OrderBy string `form:"orderby" example:"title"`
	Order   string `form:"order" example:"asc"`
}

// AdminListResponse 后台列表数据
type AdminListResponse struct {
	Books           []appbook.BookItem `json:"books"`
	Meta            pagination.Meta    `json:"meta"`
	OrderBy         string             `json:"orderby" example:"id"`
	Order           string             `json:"order" example:"desc"`
	SortableColumns []string           `json:"sortable_columns"`
	Notice          string             `json:"notice,omitempty" example:"added"` // added | updated | deleted，只出现一次
	Error           string             `json:"error,omitempty" example:"invalid_input"`
	BulkDeleteNonce string             `json:"bulk_delete_nonce"`
}

// AdminFormResponse 后台新增/编辑表单数据
type AdminFormResponse struct {
	Book  *appbook.BookItem `json:"book,omitempty"` // 新增表单为空
	Nonce string            `json:"nonce"`
}

// =========================================
// 后台登录
// =========================================

// LoginRequest 后台登录请求
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=64" example:"admin"`
	Password string `json:"password" form:"password" binding:"required,max=72" example:"secret"`
}

// LoginResponse 后台登录响应
type LoginResponse struct {
	Username     string   `json:"username" example:"admin"`
	Capabilities []string `json:"capabilities"`
	Token        string   `json:"token"`
	ExpiresAt    string   `json:"expires_at" example:"2024-01-15 10:30:00"`
}
