package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/auditctx"
	iauth "github.com/charlesng35/orgdesk/internal/auth"
	"github.com/charlesng35/orgdesk/pkg/errors"
	"github.com/charlesng35/orgdesk/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
)

// Auth enforces bearer JWT authentication using the supplied JWT service and
// attaches the caller to the request context for audit attribution.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(authz[7:]))
		if err != nil {
			// All validation failures look the same to the client.
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		userID := claims.Principal()
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, userID)

		ctx := auditctx.WithActor(c.Request.Context(), auditctx.Actor{
			UserID:    userID,
			RequestID: c.GetString(CtxRequestIDKey),
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
