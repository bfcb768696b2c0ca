package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/permissions"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, Ping(context.Background(), db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AutoMigrateAndSeed(db))

	var templates []models.PermissionTemplate
	require.NoError(t, db.Order("sort_order").Find(&templates).Error)
	require.Len(t, templates, len(DefaultTemplates()))
	for _, tmpl := range templates {
		require.True(t, tmpl.IsDefault)
		require.True(t, tmpl.IsGlobal())
		require.Equal(t, models.GlobalTemplateScope, tmpl.Scope)
	}
	require.Equal(t, "Vendedor", templates[0].Name)
	require.True(t, templates[0].Vector().Allows(permissions.ManageContacts))

	migrator := db.Migrator()
	for _, key := range permissions.Keys() {
		require.True(t, migrator.HasColumn(&models.UserPermission{}, models.PermissionColumn(key)), "missing column %s", key)
	}
}

func TestSeedDataRunsOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrateAndSeed(db))

	require.NoError(t, db.Where("name = ?", "Vendedor").Delete(&models.PermissionTemplate{}).Error)
	require.NoError(t, SeedData(db))

	var count int64
	require.NoError(t, db.Model(&models.PermissionTemplate{}).Where("name = ?", "Vendedor").Count(&count).Error)
	require.Zero(t, count, "deleted default templates are not re-created")
}

func TestTemplateNameUniquePerScope(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	orgA, orgB := uuid.NewString(), uuid.NewString()
	require.NoError(t, db.Create(&models.PermissionTemplate{Name: "Suporte"}).Error)
	require.NoError(t, db.Create(&models.PermissionTemplate{Name: "Suporte", OrganizationID: &orgA}).Error)
	require.NoError(t, db.Create(&models.PermissionTemplate{Name: "Suporte", OrganizationID: &orgB}).Error)

	err := db.Create(&models.PermissionTemplate{Name: "Suporte", OrganizationID: &orgA}).Error
	require.Error(t, err)
	err = db.Create(&models.PermissionTemplate{Name: "Suporte"}).Error
	require.Error(t, err)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite", DSN: MemoryDSN(uuid.NewString())})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
