package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cbonilla3189/happyfans/pkg/response"
)

// MaxUploadBytes 单个请求体上限
const MaxUploadBytes int64 = 5 << 20

// BodyLimit 声明长度超限直接 413；其余请求体包上 MaxBytesReader
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.Abort()
			response.RequestEntityTooLarge(c)
			return
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
