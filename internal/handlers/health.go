package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/database"
	"github.com/charlesng35/orgdesk/pkg/logger"
)

// Pinger is implemented by optional dependencies checked for readiness, such as the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// Health reports readiness. The database must answer; named pingers are reported individually.
func Health(db *gorm.DB, pingers map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(requestContext(c), healthCheckTimeout)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if err := database.Ping(ctx, db); err != nil {
			logger.WithModule("health").Warn("database check failed", zap.Error(err))
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "up"
		}

		for name, p := range pingers {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				logger.WithModule("health").Warn("dependency check failed", zap.String("dependency", name), zap.Error(err))
				checks[name] = "down"
				healthy = false
				continue
			}
			checks[name] = "up"
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"checks":     checks,
			"checked_at": time.Now().UTC(),
		})
	}
}
