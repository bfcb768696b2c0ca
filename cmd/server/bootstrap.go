package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/api"
	"github.com/charlesng35/orgdesk/internal/app"
	"github.com/charlesng35/orgdesk/internal/app/maintenance"
	iauth "github.com/charlesng35/orgdesk/internal/auth"
	"github.com/charlesng35/orgdesk/internal/cache"
	"github.com/charlesng35/orgdesk/internal/database"
	"github.com/charlesng35/orgdesk/internal/middleware"
	"github.com/charlesng35/orgdesk/internal/services"
	"github.com/charlesng35/orgdesk/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Redis     *cache.RedisStore
	AuditSvc  *services.AuditService
	Cleaner   *maintenance.Cleaner
	RateStore middleware.RateStore
	Router    *gin.Engine

	memoryRates *middleware.MemoryRateStore
}

// bootstrapRuntime initialises the database, caches, services and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			_ = stack.Shutdown(context.Background(), log)
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Redis.Enabled {
		stack.Redis, err = cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig())
		if err != nil {
			log.Warn("redis unavailable; falling back to database-backed counters", zap.Error(err))
			stack.Redis = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.AuditSvc, err = services.NewAuditService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise audit service: %w", err)
	}

	dbStore := cache.NewDatabaseStore(stack.DB)

	if cfg.Maintenance.Enabled {
		stack.Cleaner = maintenance.NewCleaner(stack.AuditSvc, dbStore,
			maintenance.WithAuditRetentionDays(cfg.Maintenance.AuditRetentionDays),
			maintenance.WithAuditSchedule(cfg.Maintenance.AuditSchedule),
			maintenance.WithCacheSchedule(cfg.Maintenance.CacheSchedule),
		)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	if cfg.RateLimit.Enabled {
		stack.RateStore = stack.selectRateStore(cfg, dbStore, log)
	}

	var opts []api.RouterOption
	if stack.Redis != nil {
		opts = append(opts, api.WithHealthCheck("redis", stack.Redis))
	}

	stack.Router, err = api.NewRouter(stack.DB, jwtSvc, cfg, stack.RateStore, opts...)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

func (s *runtimeStack) selectRateStore(cfg *app.Config, dbStore *cache.DatabaseStore, log *zap.Logger) middleware.RateStore {
	backend := cfg.ResolvedStore()
	if backend == app.RateStoreRedis && s.Redis == nil {
		backend = app.RateStoreDatabase
	}

	log.Info("rate limiting enabled",
		zap.String("store", backend),
		zap.Int("requests", cfg.RateLimit.Requests),
		zap.Duration("window", cfg.RateLimit.Window),
	)

	switch backend {
	case app.RateStoreRedis:
		return middleware.NewStoreRateStore(s.Redis)
	case app.RateStoreDatabase:
		return middleware.NewStoreRateStore(dbStore)
	default:
		s.memoryRates = middleware.NewMemoryRateStore()
		return s.memoryRates
	}
}

// Shutdown stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) error {
	if s == nil {
		return nil
	}

	var errs error

	if s.Cleaner != nil {
		select {
		case <-s.Cleaner.Stop().Done():
		case <-ctx.Done():
		}
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.memoryRates != nil {
		s.memoryRates.Close()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if s.DB != nil {
		if err := database.Close(s.DB); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	return errs
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseOpenConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	logger.WithModule("database").Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}
