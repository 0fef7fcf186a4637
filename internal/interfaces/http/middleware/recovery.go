package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nordvest/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a logged stack trace and a 500 in the
// standard error envelope. Nothing is written when the response has already
// started, as happens mid-way through an SSE stream.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("Panic recovered",
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("error", rec),
				zap.Stack("stacktrace"),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
		}()
		c.Next()
	}
}
