package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// callerID returns the authenticated user id set by middleware.Auth.
func callerID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
