package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/pkg/logger"
	"github.com/cbonilla3189/happyfans/pkg/response"
)

// Recovery 捕获 panic，记录堆栈并上报 Sentry
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("panic recovered",
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.ByteString("stack", debug.Stack()),
			)
			hub := sentry.GetHubFromContext(c.Request.Context())
			if hub == nil {
				hub = sentry.CurrentHub()
			}
			hub.RecoverWithContext(c.Request.Context(), rec)

			c.Abort()
			if !c.Writer.Written() {
				response.Error(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
