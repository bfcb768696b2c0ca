package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/orgdesk/internal/app"
	"github.com/charlesng35/orgdesk/internal/database"
	"github.com/charlesng35/orgdesk/internal/middleware"
	"github.com/charlesng35/orgdesk/internal/models"
)

func testConfig(name string) *app.Config {
	return &app.Config{
		Server: app.ServerConfig{Port: 8080},
		Database: app.DatabaseConfig{
			Driver: "sqlite",
			DSN:    database.MemoryDSN(name),
		},
		Auth: app.AuthConfig{JWT: app.JWTSettings{Secret: "bootstrap-secret"}},
		RateLimit: app.RateLimitConfig{
			Enabled:  true,
			Requests: 10,
			Window:   time.Minute,
			Store:    app.RateStoreAuto,
		},
	}
}

func bootstrap(t *testing.T, cfg *app.Config) *runtimeStack {
	t.Helper()

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, stack.Shutdown(context.Background(), zap.NewNop()))
	})
	return stack
}

func TestBootstrapRuntimeSeedsAndServesHealth(t *testing.T) {
	stack := bootstrap(t, testConfig("bootstrap_health"))

	var templates int64
	require.NoError(t, stack.DB.Model(&models.PermissionTemplate{}).Count(&templates).Error)
	require.Equal(t, int64(len(database.DefaultTemplates())), templates)

	_, isMemory := stack.RateStore.(*middleware.MemoryRateStore)
	require.True(t, isMemory)
	require.Nil(t, stack.Redis)
	require.Nil(t, stack.Cleaner)

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/permissions/me", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBootstrapRuntimeUsesRedisWhenAvailable(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig("bootstrap_redis")
	cfg.Cache.Redis = app.RedisCacheConfig{Enabled: true, Address: mr.Addr(), Timeout: time.Second}
	cfg.Maintenance = app.MaintenanceConfig{Enabled: true, AuditRetentionDays: 30}

	stack := bootstrap(t, cfg)
	require.NotNil(t, stack.Redis)
	require.NotNil(t, stack.Cleaner)

	count, _, err := stack.RateStore.Increment(context.Background(), "probe", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NotEmpty(t, mr.Keys())
}

func TestBootstrapRuntimeFallsBackToDatabaseCounters(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig("bootstrap_fallback")
	cfg.Cache.Redis = app.RedisCacheConfig{Enabled: true, Address: addr, Timeout: 200 * time.Millisecond}
	cfg.RateLimit.Store = app.RateStoreRedis

	stack := bootstrap(t, cfg)
	require.Nil(t, stack.Redis)

	count, _, err := stack.RateStore.Increment(context.Background(), "probe", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	count, _, err = stack.RateStore.Increment(context.Background(), "probe", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestBootstrapRuntimeWithoutRateLimit(t *testing.T) {
	cfg := testConfig("bootstrap_norate")
	cfg.RateLimit.Enabled = false

	stack := bootstrap(t, cfg)
	require.Nil(t, stack.RateStore)
}

func TestLoadApplicationConfigRejectsMissingPath(t *testing.T) {
	_, err := loadApplicationConfig("/does/not/exist/config.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func TestRunFailsWithoutSecret(t *testing.T) {
	t.Setenv(app.EnvPrefix+"_AUTH_JWT_SECRET", "")
	err := run(context.Background(), []string{"-config", t.TempDir()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth.jwt.secret")
}
