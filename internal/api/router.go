package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/app"
	iauth "github.com/charlesng35/orgdesk/internal/auth"
	"github.com/charlesng35/orgdesk/internal/handlers"
	"github.com/charlesng35/orgdesk/internal/middleware"
	"github.com/charlesng35/orgdesk/internal/services"
)

// RouterOption customises router construction.
type RouterOption func(*routerOptions)

type routerOptions struct {
	pingers map[string]handlers.Pinger
}

// WithHealthCheck adds a named dependency to the /health readiness report.
func WithHealthCheck(name string, p handlers.Pinger) RouterOption {
	return func(o *routerOptions) {
		if name != "" && p != nil {
			o.pingers[name] = p
		}
	}
}

// NewRouter builds the Gin engine, wires middleware and registers the API routes.
// rateStore may be nil, which disables rate limiting.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, rateStore middleware.RateStore, opts ...RouterOption) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	options := routerOptions{pingers: map[string]handlers.Pinger{}}
	for _, opt := range opts {
		opt(&options)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins...))

	registerHealthRoutes(r, db, options.pingers)

	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	permissionSvc, err := services.NewPermissionService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	templateSvc, err := services.NewTemplateService(db, auditSvc)
	if err != nil {
		return nil, err
	}

	limited := cfg.RateLimit.Enabled && rateStore != nil

	api := r.Group("/api")
	// Keyed by client address; throttles callers whose tokens never validate.
	if limited {
		api.Use(middleware.RateLimit(rateStore, cfg.RateLimit.IPLimit(), cfg.RateLimit.Window))
	}
	api.Use(middleware.Auth(jwt))
	// Keyed by user id.
	if limited {
		api.Use(middleware.RateLimit(rateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	if err := registerPermissionRoutes(api, permissionSvc); err != nil {
		return nil, err
	}
	if err := registerPermissionTemplateRoutes(api, templateSvc); err != nil {
		return nil, err
	}
	if err := registerAuditRoutes(api, auditSvc, permissionSvc); err != nil {
		return nil, err
	}

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
