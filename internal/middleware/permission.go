package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/orgdesk/internal/permissions"
	"github.com/charlesng35/orgdesk/pkg/errors"
	"github.com/charlesng35/orgdesk/pkg/logger"
	"github.com/charlesng35/orgdesk/pkg/response"
)

// ErrPermissionFlagMissing is returned when the caller's resolved vector lacks the required flag.
var ErrPermissionFlagMissing = errors.New("PERMISSION_FLAG_MISSING", "You do not have access to this resource", http.StatusForbidden)

// PermissionChecker answers whether a user holds a permission flag.
type PermissionChecker interface {
	Check(ctx context.Context, userID string, key permissions.Key) (bool, error)
}

// RequirePermission re-checks a permission flag server-side before the handler runs.
func RequirePermission(checker PermissionChecker, key permissions.Key) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserIDKey)
		if userID == "" {
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		allowed, err := checker.Check(c.Request.Context(), userID, key)
		if err != nil {
			logger.WithModule("http").Error("permission check failed",
				zap.String("permission", key.String()),
				zap.String("user_id", userID),
				zap.Error(err),
			)
			response.Abort(c, err)
			return
		}
		if !allowed {
			response.Abort(c, ErrPermissionFlagMissing)
			return
		}
		c.Next()
	}
}
