package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/csrf"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/sanitize"
)

// 后台列表页的一次性提示
const (
	NoticeAdded   = "added"
	NoticeUpdated = "updated"
	NoticeDeleted = "deleted"

	ErrorInvalidInput = "invalid_input"
)

// AdminHandler 后台图书管理
// 设计说明：
// 1. 路由组已经过RequireCapability(manage_books)，这里只校验表单防伪令牌
// 2. 表单提交成功后303重定向回列表页，URL携带一次性提示(added/updated/deleted)
// 3. 字段校验失败时不写入，重定向到列表页并携带error=invalid_input
// 4. 读接口返回列表页、表单页所需的数据（统一响应结构）
type AdminHandler struct {
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBooksUseCase
	getUseCase    *appbook.GetBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	nonces        *csrf.Manager
	perPage       int
	listPath      string
}

// NewAdminHandler 创建后台处理器
func NewAdminHandler(
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	nonces *csrf.Manager,
	cfg *config.Config,
) *AdminHandler {
	return &AdminHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		nonces:        nonces,
		perPage:       cfg.Books.AdminPerPage,
		listPath:      cfg.Server.AdminListPath,
	}
}

// List 后台列表页数据
// @Summary      后台图书列表
// @Tags         后台
// @Produce      json
// @Security     CookieAuth
// @Param        paged    query int    false "页码" default(1)
// @Param        orderby  query string false "排序字段" Enums(id, title, published_year)
// @Param        order    query string false "排序方向" Enums(asc, desc)
// @Success      200 {object} response.Response{data=dto.AdminListResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权限"
// @Router       /admin/books [get]
func (h *AdminHandler) List(c *gin.Context) {
	var query dto.AdminListQuery
	_ = c.ShouldBindQuery(&query)

	page := 1
	if query.Paged != "" {
		if page = sanitize.Int(query.Paged); page < 1 {
			page = 1
		}
	}
	orderBy, order := book.NormalizeSort(query.OrderBy, query.Order)

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:    page,
		PerPage: h.perPage,
		SortBy:  orderBy,
		Order:   order,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	nonce, err := h.nonces.Generate(ActionBulkDelete, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.AdminListResponse{
		Books:           result.Books,
		Meta:            result.Meta,
		OrderBy:         orderBy,
		Order:           order,
		SortableColumns: book.SortableColumns(),
		Notice:          notice(c),
		Error:           c.Query("error"),
		BulkDeleteNonce: nonce,
	})
}

// New 新增表单数据
// @Summary      新增表单
// @Tags         后台
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response{data=dto.AdminFormResponse}
// @Router       /admin/books/new [get]
func (h *AdminHandler) New(c *gin.Context) {
	nonce, err := h.nonces.Generate(ActionAdd, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AdminFormResponse{Nonce: nonce})
}

// Get 编辑表单数据
// @Summary      编辑表单
// @Tags         后台
// @Produce      json
// @Security     CookieAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.AdminFormResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /admin/books/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	id := sanitize.ID(c.Param("id"))

	item, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	nonce, err := h.nonces.Generate(ActionEdit(id), middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AdminFormResponse{Book: item, Nonce: nonce})
}

// Add 新增图书（表单提交）
// @Summary      新增图书
// @Tags         后台
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Param        nonce           formData string true "防伪令牌（见/admin/books/new）"
// @Param        title           formData string true "书名"
// @Param        author          formData string true "作者"
// @Param        published_year  formData int    true "出版年份"
// @Success      303 "重定向到列表页?added=1"
// @Failure      401 {object} response.Response "令牌无效"
// @Router       /admin/books [post]
func (h *AdminHandler) Add(c *gin.Context) {
	var form dto.AdminBookForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	if !h.verify(c, form.Nonce, ActionAdd, appbook.CommandCreate) {
		return
	}

	_, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:         form.Title,
		Author:        form.Author,
		PublishedYear: sanitize.Int(form.PublishedYear),
	})
	if h.handleCommandError(c, err) {
		return
	}
	h.redirect(c, NoticeAdded)
}

// Edit 编辑图书（表单提交）
// 目标不存在时同样重定向成功提示
// @Summary      编辑图书
// @Tags         后台
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Param        id              path     int    true "图书ID"
// @Param        nonce           formData string true "防伪令牌（见/admin/books/{id}）"
// @Param        title           formData string true "书名"
// @Param        author          formData string true "作者"
// @Param        published_year  formData int    true "出版年份"
// @Success      303 "重定向到列表页?updated=1"
// @Failure      401 {object} response.Response "令牌无效"
// @Router       /admin/books/{id} [post]
func (h *AdminHandler) Edit(c *gin.Context) {
	id := sanitize.ID(c.Param("id"))

	var form dto.AdminBookForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	if !h.verify(c, form.Nonce, ActionEdit(id), appbook.CommandUpdate) {
		return
	}

	_, err := h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:            id,
		Title:         form.Title,
		Author:        form.Author,
		PublishedYear: sanitize.Int(form.PublishedYear),
	})
	if h.handleCommandError(c, err) {
		return
	}
	h.redirect(c, NoticeUpdated)
}

// BulkDelete 批量删除（表单提交）
// 非法ID按0处理并被忽略，实际删除0行也重定向成功提示
// @Summary      批量删除
// @Tags         后台
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Param        nonce       formData string   true "防伪令牌（见列表页bulk_delete_nonce）"
// @Param        book_ids[]  formData []int    true "图书ID" collectionFormat(multi)
// @Success      303 "重定向到列表页?deleted=1"
// @Failure      401 {object} response.Response "令牌无效"
// @Router       /admin/books/bulk-delete [post]
func (h *AdminHandler) BulkDelete(c *gin.Context) {
	var form dto.BulkDeleteForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	if !h.verify(c, form.Nonce, ActionBulkDelete, appbook.CommandDelete) {
		return
	}

	ids := make([]uint, 0, len(form.BookIDs))
	for _, raw := range form.BookIDs {
		ids = append(ids, sanitize.ID(raw))
	}

	if _, err := h.deleteUseCase.Execute(c.Request.Context(), ids); err != nil {
		response.Error(c, err)
		return
	}
	h.redirect(c, NoticeDeleted)
}

// verify 校验表单防伪令牌，失败时已写入响应
func (h *AdminHandler) verify(c *gin.Context, nonce, action, command string) bool {
	err := h.nonces.VerifyOnce(c.Request.Context(), nonce, action, middleware.GetUsername(c))
	if err != nil {
		metrics.RecordCommand(command, metrics.ResultUnauthorized)
		response.Error(c, err)
		return false
	}
	return true
}

// handleCommandError 处理新增/编辑的错误，返回true表示已写入响应
func (h *AdminHandler) handleCommandError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsValidation(err) {
		h.redirectWith(c, "error", ErrorInvalidInput)
		return true
	}
	response.Error(c, err)
	return true
}

func (h *AdminHandler) redirect(c *gin.Context, flag string) {
	h.redirectWith(c, flag, "1")
}

func (h *AdminHandler) redirectWith(c *gin.Context, key, value string) {
	c.Redirect(http.StatusSeeOther, h.listPath+"?"+url.Values{key: {value}}.Encode())
}

// notice 列表页URL上的一次性提示
func notice(c *gin.Context) string {
	for _, flag := range []string{NoticeAdded, NoticeUpdated, NoticeDeleted} {
		if c.Query(flag) == "1" {
			return flag
		}
	}
	return ""
}
