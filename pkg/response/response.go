package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Response 统一响应结构（后台JSON接口使用）
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// HTTP状态码由错误码族决定，内部错误只写日志
func Error(c *gin.Context, err error) {
	appErr := logAppError(c, err)

	c.JSON(HTTPStatus(appErr), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(HTTPStatus(apperrors.New(code, message)), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// =========================================
// 公开接口（前端组件）响应
// =========================================
// 公开接口的载荷结构固定：成功时直接返回业务数据，失败时只有message字段，
// 错误类型通过HTTP状态码区分（401/422/500）。

// MessageBody 公开接口的错误载荷
type MessageBody struct {
	Message string `json:"message"`
}

// JSON 以指定状态码返回载荷
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Fail 公开接口错误响应
func Fail(c *gin.Context, err error) {
	appErr := logAppError(c, err)
	c.JSON(HTTPStatus(appErr), MessageBody{Message: appErr.Message})
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(err error) int {
	appErr := apperrors.GetAppError(err)
	switch code := appErr.Code; {
	case code >= 40100 && code < 40200:
		if code == apperrors.ErrCodeForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 42200 && code < 42300:
		return http.StatusUnprocessableEntity
	case code == apperrors.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// logAppError 提取AppError并记录内部错误
func logAppError(c *gin.Context, err error) *apperrors.AppError {
	appErr := apperrors.GetAppError(err)
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}
	return appErr
}
