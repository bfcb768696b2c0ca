package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/orgdesk/pkg/metrics"
)

func TestMetricsLabelsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/permissions/:userId", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	matched := metrics.Requests.WithLabelValues(http.MethodGet, "/api/permissions/:userId", "200")
	unmatched := metrics.Requests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	beforeMatched := testutil.ToFloat64(matched)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	for _, path := range []string{"/api/permissions/u-1", "/api/permissions/u-2", "/nowhere"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, beforeMatched+2, testutil.ToFloat64(matched))
	require.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	require.Zero(t, testutil.ToFloat64(metrics.RequestsInFlight))
}
