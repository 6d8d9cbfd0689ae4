package response

import (
	"errors"
	"net/http"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code     int    `json:"code"`               // 状态码
	Message  string `json:"message"`            // 响应消息
	Category string `json:"category,omitempty"` // 消息分类: danger/warning/info/success
	Data     any    `json:"data"`               // 响应数据
}

// Success 返回成功响应
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Code:     0,
		Message:  message,
		Category: "success",
		Data:     data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string, err error) {
	// 记录详细错误信息，但不向客户端暴露
	if err != nil {
		_ = c.Error(err)
	}

	category := "danger"
	if code < http.StatusInternalServerError {
		category = "warning"
	}

	c.JSON(code, Response{
		Code:     code,
		Message:  message,
		Category: category,
		Data:     nil,
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context, message string, err error) {
	Error(c, http.StatusUnauthorized, message, err)
}

// Forbidden 403错误响应
func Forbidden(c *gin.Context, message string, err error) {
	Error(c, http.StatusForbidden, message, err)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string, err error) {
	Error(c, http.StatusNotFound, message, err)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, message, err)
}

// FromError 根据业务错误类别映射HTTP状态码
func FromError(c *gin.Context, err error) {
	message := "请求失败"
	var e *apperr.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	var status int
	switch apperr.KindOf(err) {
	case apperr.KindNotFound, apperr.KindInvalidTarget:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindInvalidInput:
		status = http.StatusBadRequest
	case apperr.KindConflict, apperr.KindHasContent:
		status = http.StatusConflict
	case apperr.KindAuthFailed:
		status = http.StatusUnauthorized
	case apperr.KindTooLarge:
		status = http.StatusRequestEntityTooLarge
	default:
		// 存储故障不向客户端暴露细节
		Error(c, http.StatusInternalServerError, "服务器内部错误", err)
		return
	}
	Error(c, status, message, nil)
}
