package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/csrf"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/pagination"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/sanitize"
)

// PublicBooksPath 公开接口路径，同时作为前端组件的ajax_url
const PublicBooksPath = "/api/v1/books"

// BookHandler 公开图书接口（前端组件使用）
// 设计说明：
// 1. 匿名可访问，提交接口依靠防伪令牌防止跨站伪造
// 2. 载荷结构固定：成功直接返回数据，失败只有{message}，错误类型由状态码区分
// 3. 列表接口从不返回错误，查询失败降级为空列表
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	nonces        *csrf.Manager
	books         config.BooksConfig
}

// NewBookHandler 创建公开图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	nonces *csrf.Manager,
	cfg *config.Config,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		nonces:        nonces,
		books:         cfg.Books,
	}
}

// SubmitBook 匿名提交图书
// @Summary      提交图书
// @Description  前端组件匿名提交一本图书。先校验防伪令牌，再校验字段
// @Tags         公开接口
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        nonce           formData string true "防伪令牌（见/widget）"
// @Param        title           formData string true "书名"
// @Param        author          formData string true "作者"
// @Param        published_year  formData int    true "出版年份(1-9999)"
// @Success      200 {object} dto.SubmitBookResponse
// @Failure      401 {object} response.MessageBody "Invalid nonce"
// @Failure      422 {object} response.MessageBody "字段校验失败"
// @Failure      429 {object} response.MessageBody "请求过于频繁"
// @Failure      500 {object} response.MessageBody "存储失败"
// @Router       /api/v1/books [post]
func (h *BookHandler) SubmitBook(c *gin.Context) {
	// 1. 防伪令牌先于请求体绑定（匿名访客的令牌主体为空串）
	if err := h.nonces.Verify(c.Request.Context(), c.PostForm("nonce"), ActionSubmit, ""); err != nil {
		metrics.RecordCommand(appbook.CommandCreate, metrics.ResultUnauthorized)
		response.Fail(c, err)
		return
	}

	var req dto.SubmitBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, apperrors.ErrBindError)
		return
	}

	// 2. 校验并写入
	item, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: sanitize.Int(req.PublishedYear),
	})
	if err != nil {
		if apperrors.IsValidation(err) {
			response.Fail(c, err)
			return
		}
		response.Fail(c, &apperrors.AppError{
			Code:    apperrors.ErrCodeDatabaseError,
			Message: "Failed to add book",
			Err:     err,
		})
		return
	}

	response.JSON(c, http.StatusOK, dto.SubmitBookResponse{
		Message: "Book added",
		Book:    item.Escaped(),
	})
}

// ListBooks 公开图书列表
// @Summary      图书列表
// @Description  按ID降序分页。page、per_page小于1时按1处理；查询失败时返回空列表
// @Tags         公开接口
// @Produce      json
// @Param        page      query int false "页码" default(1)
// @Param        per_page  query int false "每页条数" default(10)
// @Success      200 {object} dto.ListBooksResponse
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	page, perPage := pagination.Normalize(
		queryInt(c, "page", 1),
		queryInt(c, "per_page", h.books.PublicPerPage),
		h.books.MaxPerPage,
	)

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		metrics.IncListFallback()
		zap.L().Warn("公开列表查询失败，返回空结果", zap.Error(err))
		response.JSON(c, http.StatusOK, dto.ListBooksResponse{
			Books: []appbook.BookItem{},
			Meta:  pagination.Empty(perPage),
		})
		return
	}

	books := make([]appbook.BookItem, len(result.Books))
	for i, b := range result.Books {
		books[i] = b.Escaped()
	}

	response.JSON(c, http.StatusOK, dto.ListBooksResponse{
		Books: books,
		Meta:  result.Meta,
	})
}

// Widget 前端组件初始化数据
// @Summary      组件初始化
// @Description  返回接口地址、提交令牌和默认每页条数，嵌入页面时注入
// @Tags         公开接口
// @Produce      json
// @Success      200 {object} dto.WidgetResponse
// @Router       /api/v1/books/widget [get]
func (h *BookHandler) Widget(c *gin.Context) {
	nonce, err := h.nonces.Generate(ActionSubmit, "")
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.WidgetResponse{
		AjaxURL: PublicBooksPath,
		Nonce:   nonce,
		PerPage: h.books.PublicPerPage,
	})
}
