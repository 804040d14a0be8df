package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/pkg/logger"
)

// Response 统一 JSON 返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "not found")
}

func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "too many requests")
}

func RequestEntityTooLarge(c *gin.Context) {
	Error(c, http.StatusRequestEntityTooLarge, "request body too large")
}

// InternalError 记录原始错误并上报 Sentry，响应体只返回通用信息
func InternalError(c *gin.Context, err error) {
	logInternal(c, err)
	Error(c, http.StatusInternalServerError, "internal server error")
}

func logInternal(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		// 与 middleware.RequestIDKey 保持一致
		zap.String("request_id", c.GetString("request_id")),
	)
	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
