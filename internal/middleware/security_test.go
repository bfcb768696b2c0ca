package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/permissions/me", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name      string
		forwarded string
		wantHSTS  string
	}{
		{name: "plain http", wantHSTS: ""},
		{name: "behind tls proxy", forwarded: "https", wantHSTS: hstsValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/permissions/me", nil)
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tc.forwarded)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			h := w.Header()
			require.Equal(t, "DENY", h.Get("X-Frame-Options"))
			require.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
			require.Equal(t, DefaultContentSecurityPolicy, h.Get("Content-Security-Policy"))
			require.Equal(t, permissionsValue, h.Get("Permissions-Policy"))
			require.Equal(t, "no-store", h.Get("Cache-Control"))
			require.Equal(t, tc.wantHSTS, h.Get("Strict-Transport-Security"))
		})
	}
}
