package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rewards/voucherhub/pkg/response"
)

// Recovery turns a panic in a later handler into a 500 envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("request_id", c.Writer.Header().Get(HeaderRequestID)),
					zap.String("path", c.Request.URL.Path),
				)
				response.InternalError(c, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
