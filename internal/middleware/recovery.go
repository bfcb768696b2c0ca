package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/orgdesk/pkg/errors"
	"github.com/charlesng35/orgdesk/pkg/logger"
	"github.com/charlesng35/orgdesk/pkg/metrics"
	"github.com/charlesng35/orgdesk/pkg/response"
)

// Recovery turns a handler panic into the generic 500 envelope. The panic
// value is logged but never sent to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			metrics.Panics.Inc()
			logger.WithModule("http").Error("panic",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(CtxRequestIDKey)),
				zap.String("user_id", c.GetString(CtxUserIDKey)),
				zap.Any("error", r),
				zap.Stack("stack"),
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Abort(c, errors.ErrInternalServer)
		}()
		c.Next()
	}
}

// NotFoundHandler answers unknown routes with the JSON 404 envelope.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, errors.ErrNotFound)
}
