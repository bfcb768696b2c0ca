package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/orgdesk/pkg/errors"
	"github.com/charlesng35/orgdesk/pkg/i18n"
	"github.com/charlesng35/orgdesk/pkg/logger"
)

// requestIDHeader mirrors the header set by the request id middleware.
const requestIDHeader = "X-Request-ID"

// ErrorBody is the JSON envelope returned for every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Page describes pagination metadata for list payloads.
type Page struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// Paged wraps list results with pagination metadata.
type Paged struct {
	Items any  `json:"items"`
	Meta  Page `json:"meta"`
}

// Success writes the payload as the JSON body.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// SuccessWithMeta writes a list payload together with pagination metadata.
func SuccessWithMeta(c *gin.Context, statusCode int, items any, meta Page) {
	c.JSON(statusCode, Paged{Items: items, Meta: meta})
}

// Error writes a localized JSON error derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logInternal(c, status, err)
		// Internal details never reach the client.
		appErr = appErrors.ErrInternalServer
	}

	tag := i18n.Negotiate(c.GetHeader("Accept-Language"))
	c.JSON(status, ErrorBody{
		Error: i18n.Message(tag, appErr.Code, appErr.Message),
		Code:  appErr.Code,
	})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func logInternal(c *gin.Context, status int, err error) {
	_ = c.Error(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", c.Writer.Header().Get(requestIDHeader)),
	}
	if c.Request != nil {
		fields = append(fields,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
	logger.WithModule("http").Error("internal error", fields...)
}
