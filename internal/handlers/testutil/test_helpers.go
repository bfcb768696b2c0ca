package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/api"
	"github.com/charlesng35/orgdesk/internal/app"
	iauth "github.com/charlesng35/orgdesk/internal/auth"
	sharedtestutil "github.com/charlesng35/orgdesk/internal/database/testutil"
	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
			},
		},
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	router, err := api.NewRouter(db, jwtSvc, cfg, nil)
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Router: router,
		JWT:    jwtSvc,
	}
}

// CreateOrganization inserts an organization with the given name.
func (e *Env) CreateOrganization(name string) *models.Organization {
	e.T.Helper()

	org := &models.Organization{Name: name}
	require.NoError(e.T, e.DB.Create(org).Error)
	return org
}

// CreateUser inserts an active user with a unique email.
func (e *Env) CreateUser(name string, superadmin bool) *models.User {
	e.T.Helper()

	user := &models.User{
		Name:         name,
		Email:        name + "-" + uuid.NewString() + "@example.com",
		IsSuperadmin: superadmin,
		IsActive:     true,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// CreateMember inserts a user belonging to orgID with the given role.
func (e *Env) CreateMember(orgID, name, role string) *models.User {
	e.T.Helper()

	user := e.CreateUser(name, false)
	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
	}
	require.NoError(e.T, e.DB.Create(member).Error)
	return user
}

// Token mints an access token for userID.
func (e *Env) Token(userID string) string {
	e.T.Helper()

	token, err := e.JWT.GenerateAccessToken(iauth.AccessTokenInput{UserID: userID})
	require.NoError(e.T, err)
	return token
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = bytes.NewBuffer(nil)
	case string:
		buf = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// DecodeInto unmarshals the recorder body into dest.
func DecodeInto[T any](t *testing.T, w *httptest.ResponseRecorder, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

// DecodeError parses the error envelope.
func DecodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	DecodeInto(t, w, &body)
	return body
}
