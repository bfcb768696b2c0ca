package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/permissions"
	"github.com/charlesng35/orgdesk/pkg/metrics"
)

// CreateTemplateInput captures the attributes of a new template.
type CreateTemplateInput struct {
	Name        string
	Description string
	Icon        string
	Permissions *permissions.Vector
}

// UpdateTemplateInput represents mutable template fields. Nil fields keep their value.
type UpdateTemplateInput struct {
	Name        *string
	Description *string
	Icon        *string
	SortOrder   *int
	Permissions *permissions.Vector
}

// TemplateService manages permission templates.
type TemplateService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewTemplateService constructs a TemplateService instance.
func NewTemplateService(db *gorm.DB, audit *AuditService) (*TemplateService, error) {
	if db == nil {
		return nil, errors.New("template service: db is required")
	}
	return &TemplateService{db: db, auditService: audit}, nil
}

// List returns the templates visible to the actor: global ones plus those of the
// actor's organization. Superadmins see every template.
func (s *TemplateService) List(ctx context.Context, actorID string) ([]models.PermissionTemplate, error) {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	if caller.superadmin() {
		var templates []models.PermissionTemplate
		if err := s.db.WithContext(ctx).
			Order("sort_order ASC").
			Order("created_at ASC").
			Find(&templates).Error; err != nil {
			return nil, fmt.Errorf("template service: list templates: %w", err)
		}
		return templates, nil
	}

	templates, err := visibleTemplates(ctx, s.db, caller.organizationID())
	if err != nil {
		return nil, fmt.Errorf("template service: %w", err)
	}
	return templates, nil
}

// Get returns a single visible template.
func (s *TemplateService) Get(ctx context.Context, actorID, id string) (*models.PermissionTemplate, error) {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}
	return s.loadVisible(ctx, caller, id)
}

// Create registers a template. Superadmins create global templates; owners create
// templates for their own organization.
func (s *TemplateService) Create(ctx context.Context, actorID string, input CreateTemplateInput) (*models.PermissionTemplate, error) {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	var orgID *string
	switch {
	case caller.superadmin():
	case caller.role() == permissions.RoleOwner:
		id := caller.organizationID()
		orgID = &id
	default:
		return nil, ErrTemplateForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	if input.Permissions == nil {
		return nil, ErrPermissionsRequired
	}

	tmpl := &models.PermissionTemplate{
		OrganizationID: orgID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Icon:           strings.TrimSpace(input.Icon),
	}
	tmpl.SetVector(*input.Permissions)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&models.PermissionTemplate{}).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return fmt.Errorf("next sort order: %w", err)
		}
		tmpl.SortOrder = maxOrder + 1
		return tx.Create(tmpl).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTemplateNameTaken
		}
		return nil, fmt.Errorf("template service: create template: %w", err)
	}

	metrics.TemplateMutations.WithLabelValues("create").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:         &caller.user.ID,
		OrganizationID: caller.organizationID(),
		Action:         "permission_template.create",
		Resource:       tmpl.ID,
		Result:         "success",
		Metadata: map[string]any{
			"name":   tmpl.Name,
			"global": tmpl.IsGlobal(),
		},
	})

	return tmpl, nil
}

// Update modifies a template in place. Users the template was applied to keep
// their copied values.
func (s *TemplateService) Update(ctx context.Context, actorID, id string, input UpdateTemplateInput) (*models.PermissionTemplate, error) {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.loadManaged(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	changed := []string{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTemplateNameRequired
		}
		tmpl.Name = name
		changed = append(changed, "name")
	}
	if input.Description != nil {
		tmpl.Description = strings.TrimSpace(*input.Description)
		changed = append(changed, "description")
	}
	if input.Icon != nil {
		tmpl.Icon = strings.TrimSpace(*input.Icon)
		changed = append(changed, "icon")
	}
	if input.SortOrder != nil {
		tmpl.SortOrder = *input.SortOrder
		changed = append(changed, "sort_order")
	}
	if input.Permissions != nil {
		tmpl.SetVector(*input.Permissions)
		changed = append(changed, "permissions")
	}

	if len(changed) == 0 {
		return tmpl, nil
	}

	if err := s.db.WithContext(ctx).Save(tmpl).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTemplateNameTaken
		}
		return nil, fmt.Errorf("template service: update template: %w", err)
	}

	metrics.TemplateMutations.WithLabelValues("update").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:         &caller.user.ID,
		OrganizationID: caller.organizationID(),
		Action:         "permission_template.update",
		Resource:       tmpl.ID,
		Result:         "success",
		Metadata: map[string]any{
			"fields": changed,
		},
	})

	return tmpl, nil
}

// Delete removes a template. Overrides copied from it are untouched.
func (s *TemplateService) Delete(ctx context.Context, actorID, id string) error {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return err
	}

	tmpl, err := s.loadManaged(ctx, caller, id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.PermissionTemplate{}, "id = ?", tmpl.ID)
	if result.Error != nil {
		return fmt.Errorf("template service: delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	metrics.TemplateMutations.WithLabelValues("delete").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:         &caller.user.ID,
		OrganizationID: caller.organizationID(),
		Action:         "permission_template.delete",
		Resource:       tmpl.ID,
		Result:         "success",
		Metadata: map[string]any{
			"name": tmpl.Name,
		},
	})

	return nil
}

func (s *TemplateService) loadVisible(ctx context.Context, caller *actor, id string) (*models.PermissionTemplate, error) {
	tmpl, err := loadTemplate(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if caller.superadmin() || templateVisibleTo(tmpl, caller.organizationID()) {
		return tmpl, nil
	}
	return nil, ErrTemplateNotFound
}

// loadManaged returns a template the caller may change. Owners manage only their
// organization's templates; global templates belong to superadmins.
func (s *TemplateService) loadManaged(ctx context.Context, caller *actor, id string) (*models.PermissionTemplate, error) {
	if !caller.superadmin() && caller.role() != permissions.RoleOwner {
		return nil, ErrTemplateForbidden
	}

	tmpl, err := s.loadVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.superadmin() {
		return tmpl, nil
	}
	if tmpl.IsGlobal() {
		return nil, ErrTemplateForbidden
	}
	return tmpl, nil
}
