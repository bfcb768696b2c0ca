package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/orgdesk/internal/app"
	iauth "github.com/charlesng35/orgdesk/internal/auth"
	"github.com/charlesng35/orgdesk/internal/database/testutil"
	"github.com/charlesng35/orgdesk/internal/middleware"
)

func newTestRouter(t *testing.T, cfg *app.Config, store middleware.RateStore) (*gin.Engine, *iauth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "test", AccessTokenTTL: 15 * time.Minute})
	require.NoError(t, err)

	if cfg == nil {
		cfg = &app.Config{}
	}
	router, err := NewRouter(db, jwtSvc, cfg, store)
	require.NoError(t, err)
	return router, jwtSvc
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestNewRouterRequiresDependencies(t *testing.T) {
	_, err := NewRouter(nil, nil, nil, nil)
	require.Error(t, err)
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	w := serve(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"database":"up"`)

	for _, path := range []string{
		"/api/permissions/me",
		"/api/permissions/catalog",
		"/api/permission-templates",
		"/api/audit",
	} {
		w = serve(router, http.MethodGet, path, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w = serve(router, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)

	w := serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(),
		`orgdesk_api_latency_seconds_count{method="GET",path="/health",status="200"}`), "metrics output missing latency series")
}

func TestRouter_RateLimitAppliesToAPI(t *testing.T) {
	cfg := &app.Config{RateLimit: app.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}}
	store := middleware.NewMemoryRateStore()
	t.Cleanup(store.Close)

	router, jwtSvc := newTestRouter(t, cfg, store)
	token, err := jwtSvc.GenerateAccessToken(iauth.AccessTokenInput{UserID: "someone"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := serve(router, http.MethodGet, "/api/permissions/catalog", token)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(router, http.MethodGet, "/api/permissions/catalog", token)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// Health is outside the limited group.
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
}

func TestRouter_RateLimitThrottlesInvalidTokensByAddress(t *testing.T) {
	cfg := &app.Config{RateLimit: app.RateLimitConfig{Enabled: true, Requests: 100, IPRequests: 2, Window: time.Minute}}
	store := middleware.NewMemoryRateStore()
	t.Cleanup(store.Close)

	router, _ := newTestRouter(t, cfg, store)

	for i := 0; i < 2; i++ {
		w := serve(router, http.MethodGet, "/api/permissions/catalog", "not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := serve(router, http.MethodGet, "/api/permissions/catalog", "not-a-jwt")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}
