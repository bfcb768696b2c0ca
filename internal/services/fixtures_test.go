package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/database/testutil"
	"github.com/charlesng35/orgdesk/internal/models"
)

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	org models.Organization
}

func newFixture(t *testing.T, opts ...testutil.TestDBOption) *fixture {
	t.Helper()

	if len(opts) == 0 {
		opts = []testutil.TestDBOption{testutil.WithAutoMigrate()}
	}
	db := testutil.MustOpenTestDB(t, opts...)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	return &fixture{t: t, db: db, org: org}
}

func (f *fixture) organization(name string) models.Organization {
	f.t.Helper()

	org := models.Organization{Name: name}
	require.NoError(f.t, f.db.Create(&org).Error)
	return org
}

// member creates a user in the fixture organization with role.
func (f *fixture) member(name, role string) models.User {
	f.t.Helper()
	return f.memberOf(f.org.ID, name, role)
}

func (f *fixture) memberOf(orgID, name, role string) models.User {
	f.t.Helper()

	user := models.User{Name: name, Email: name + "-" + orgID + "@example.com", IsActive: true}
	require.NoError(f.t, f.db.Create(&user).Error)
	f.join(user.ID, orgID, role, time.Now())
	return user
}

func (f *fixture) join(userID, orgID, role string, at time.Time) {
	f.t.Helper()

	member := models.OrganizationMember{
		BaseModel:      models.BaseModel{CreatedAt: at},
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}
	require.NoError(f.t, f.db.Create(&member).Error)
}

func (f *fixture) superadmin(name string) models.User {
	f.t.Helper()

	user := models.User{Name: name, Email: name + "@platform.example.com", IsSuperadmin: true, IsActive: true}
	require.NoError(f.t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) audit() *AuditService {
	f.t.Helper()

	svc, err := NewAuditService(f.db)
	require.NoError(f.t, err)
	return svc
}
