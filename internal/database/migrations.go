package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/permissions"
)

// DefaultTemplatesSeed names the seed revision creating the built-in templates.
// Admins may delete them afterwards; they are not re-created on restart.
const DefaultTemplatesSeed = "permission_templates.v1"

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.PermissionTemplate{},
		&models.UserPermission{},
		&models.AuditLog{},
		&models.CacheEntry{},
		&models.SeedMarker{},
	)
}

// DefaultTemplates returns the global templates offered to every organization.
func DefaultTemplates() []models.PermissionTemplate {
	vendedor := permissions.Defaults(string(permissions.RoleAgent))
	vendedor[permissions.ManageContacts] = true

	supervisor := permissions.Defaults(string(permissions.RoleManager))

	var atendente permissions.Vector
	atendente[permissions.ViewDashboard] = true
	atendente[permissions.ViewConversations] = true
	atendente[permissions.SendMessages] = true
	atendente[permissions.ViewSchedule] = true
	atendente[permissions.ViewTeamChat] = true

	build := func(name, description, icon string, order int, v permissions.Vector) models.PermissionTemplate {
		t := models.PermissionTemplate{
			Name:        name,
			Description: description,
			Icon:        icon,
			SortOrder:   order,
			IsDefault:   true,
		}
		t.SetVector(v)
		return t
	}

	return []models.PermissionTemplate{
		build("Vendedor", "Acesso ao CRM e às conversas próprias", "briefcase", 1, vendedor),
		build("Supervisor", "Acompanha a equipe, relatórios e agenda", "users", 2, supervisor),
		build("Atendente", "Atendimento via conversas e agenda", "message-circle", 3, atendente),
	}
}

// SeedData populates the built-in permission templates once per installation.
func SeedData(db *gorm.DB) error {
	ctx := context.Background()

	done, err := SeedApplied(ctx, db, DefaultTemplatesSeed)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, tmpl := range DefaultTemplates() {
			tmpl := tmpl
			err := tx.Where(&models.PermissionTemplate{Scope: models.GlobalTemplateScope, Name: tmpl.Name}).
				Attrs(tmpl).
				FirstOrCreate(&models.PermissionTemplate{}).Error
			if err != nil {
				return fmt.Errorf("seed template %q: %w", tmpl.Name, err)
			}
		}
		return MarkSeedApplied(ctx, tx, DefaultTemplatesSeed)
	})
}
