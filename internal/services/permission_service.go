package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/permissions"
	"github.com/charlesng35/orgdesk/pkg/metrics"
)

// EffectivePermissions is the resolved vector for one user.
type EffectivePermissions struct {
	UserID            string             `json:"user_id"`
	OrganizationID    string             `json:"organization_id"`
	Permissions       permissions.Vector `json:"permissions"`
	IsCustom          bool               `json:"is_custom"`
	Role              string             `json:"role"`
	MatchedTemplateID *string            `json:"matched_template_id,omitempty"`
}

// PermissionService resolves effective permissions and manages per-user overrides.
type PermissionService struct {
	db           *gorm.DB
	auditService *AuditService
	now          func() time.Time
}

// NewPermissionService constructs a PermissionService using the provided database handle.
func NewPermissionService(db *gorm.DB, audit *AuditService) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	return &PermissionService{
		db:           db,
		auditService: audit,
		now:          time.Now,
	}, nil
}

// Resolve returns the user's override when one exists, otherwise the role defaults.
func (s *PermissionService) Resolve(ctx context.Context, userID string) (*EffectivePermissions, error) {
	ctx = ensureContext(ctx)

	member, err := primaryMembership(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveMember(ctx, member)
}

func (s *PermissionService) resolveMember(ctx context.Context, member *models.OrganizationMember) (*EffectivePermissions, error) {
	result := &EffectivePermissions{
		UserID:         member.UserID,
		OrganizationID: member.OrganizationID,
		Role:           member.Role,
	}

	var row models.UserPermission
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", member.UserID, member.OrganizationID).
		Take(&row).Error
	switch {
	case err == nil:
		result.Permissions = row.Vector()
		result.IsCustom = true
		metrics.Resolutions.WithLabelValues("override").Inc()
	case errors.Is(err, gorm.ErrRecordNotFound):
		result.Permissions = permissions.Defaults(member.Role)
		metrics.Resolutions.WithLabelValues("role_default").Inc()
	default:
		return nil, fmt.Errorf("permission service: load override: %w", err)
	}
	return result, nil
}

// ResolveFor resolves userID on behalf of actorID. Reads are not role gated but
// are scoped to the actor's organization unless the actor is a superadmin. The
// result carries the first visible template equal to the effective vector.
func (s *PermissionService) ResolveFor(ctx context.Context, actorID, userID string) (*EffectivePermissions, error) {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	member, err := primaryMembership(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if !caller.superadmin() && strings.TrimSpace(userID) != caller.user.ID {
		same, err := roleIn(ctx, s.db, caller.user.ID, member.OrganizationID, permissions.Roles()...)
		if err != nil {
			return nil, fmt.Errorf("permission service: %w", err)
		}
		if !same {
			return nil, ErrMembershipNotFound
		}
	}

	result, err := s.resolveMember(ctx, member)
	if err != nil {
		return nil, err
	}

	templates, err := visibleTemplates(ctx, s.db, member.OrganizationID)
	if err != nil {
		return nil, err
	}
	if match := MatchActiveTemplate(result.Permissions, templates); match != nil {
		id := match.ID
		result.MatchedTemplateID = &id
	}
	return result, nil
}

// Check is the server-side flag gate. Superadmins pass every key.
func (s *PermissionService) Check(ctx context.Context, userID string, key permissions.Key) (bool, error) {
	ctx = ensureContext(ctx)

	allowed, err := s.check(ctx, userID, key)
	result := "denied"
	switch {
	case err != nil:
		result = "error"
	case allowed:
		result = "allowed"
	}
	metrics.PermissionChecks.WithLabelValues(key.String(), result).Inc()
	return allowed, err
}

func (s *PermissionService) check(ctx context.Context, userID string, key permissions.Key) (bool, error) {
	if !key.Valid() {
		return false, fmt.Errorf("permission service: unknown permission %s", key)
	}

	caller, err := loadActor(ctx, s.db, userID)
	if err != nil {
		return false, err
	}
	if caller.superadmin() {
		return true, nil
	}
	if caller.membership == nil {
		return false, nil
	}

	resolved, err := s.resolveMember(ctx, caller.membership)
	if err != nil {
		return false, err
	}
	return permissions.Allowed(resolved.Permissions, false, key), nil
}

// OrganizationScope reports which organization userID may read tenant data for.
// all is true for superadmins, who are not restricted to one organization.
func (s *PermissionService) OrganizationScope(ctx context.Context, userID string) (organizationID string, all bool, err error) {
	ctx = ensureContext(ctx)

	caller, err := loadActor(ctx, s.db, userID)
	if err != nil {
		return "", false, err
	}
	if caller.superadmin() {
		return "", true, nil
	}
	if caller.membership == nil {
		return "", false, ErrMembershipNotFound
	}
	return caller.organizationID(), false, nil
}

// ApplyOverride writes the keys present in patch onto the user's override row.
// Keys absent from patch keep their stored value, or false when the row is new.
func (s *PermissionService) ApplyOverride(ctx context.Context, actorID, userID string, patch permissions.Patch) (*EffectivePermissions, error) {
	ctx = ensureContext(ctx)

	if patch.Empty() {
		return nil, ErrPermissionsRequired
	}

	member, err := s.authorizeOverride(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.upsert(ctx, member, patch); err != nil {
		return nil, err
	}

	metrics.OverrideMutations.WithLabelValues("apply").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:         &actorID,
		OrganizationID: member.OrganizationID,
		Action:         "permissions.override.apply",
		Resource:       member.UserID,
		Result:         "success",
		Metadata: map[string]any{
			"permissions": patch,
		},
	})

	return s.resolveMember(ctx, member)
}

// ResetOverride deletes the user's override row. Missing rows are not an error.
func (s *PermissionService) ResetOverride(ctx context.Context, actorID, userID string) (*EffectivePermissions, error) {
	ctx = ensureContext(ctx)

	member, err := s.authorizeOverride(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", member.UserID, member.OrganizationID).
		Delete(&models.UserPermission{})
	if result.Error != nil {
		return nil, fmt.Errorf("permission service: reset override: %w", result.Error)
	}

	metrics.OverrideMutations.WithLabelValues("reset").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:         &actorID,
		OrganizationID: member.OrganizationID,
		Action:         "permissions.override.reset",
		Resource:       member.UserID,
		Result:         "success",
		Metadata: map[string]any{
			"deleted": result.RowsAffected > 0,
		},
	})

	return s.resolveMember(ctx, member)
}

// ExpandTemplate returns the template's vector merged onto all-false.
func (s *PermissionService) ExpandTemplate(ctx context.Context, templateID string) (permissions.Vector, error) {
	ctx = ensureContext(ctx)

	tmpl, err := loadTemplate(ctx, s.db, templateID)
	if err != nil {
		return permissions.Vector{}, err
	}
	return tmpl.Vector(), nil
}

// ApplyTemplate copies every catalog key of the template onto the user's override.
// The override keeps no reference to the template.
func (s *PermissionService) ApplyTemplate(ctx context.Context, actorID, userID, templateID string) (*EffectivePermissions, error) {
	ctx = ensureContext(ctx)

	member, err := s.authorizeOverride(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}

	tmpl, err := loadTemplate(ctx, s.db, templateID)
	if err != nil {
		return nil, err
	}
	if !templateVisibleTo(tmpl, member.OrganizationID) {
		return nil, ErrTemplateNotFound
	}

	if err := s.upsert(ctx, member, permissions.Full(tmpl.Vector())); err != nil {
		return nil, err
	}

	metrics.OverrideMutations.WithLabelValues("apply_template").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:         &actorID,
		OrganizationID: member.OrganizationID,
		Action:         "permissions.template.apply",
		Resource:       member.UserID,
		Result:         "success",
		Metadata: map[string]any{
			"template_id":   tmpl.ID,
			"template_name": tmpl.Name,
		},
	})

	return s.resolveMember(ctx, member)
}

// MatchActiveTemplate returns the first template whose expanded vector equals v.
func MatchActiveTemplate(v permissions.Vector, templates []models.PermissionTemplate) *models.PermissionTemplate {
	match, ok := permissions.Match(v, templates, func(t models.PermissionTemplate) permissions.Vector {
		return t.Vector()
	})
	if !ok {
		return nil
	}
	return &match
}

// authorizeOverride loads the target membership and requires the actor to be a
// superadmin or an owner/admin of the target's organization.
func (s *PermissionService) authorizeOverride(ctx context.Context, actorID, userID string) (*models.OrganizationMember, error) {
	caller, err := loadActor(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	member, err := primaryMembership(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	if caller.superadmin() {
		return member, nil
	}

	ok, err := roleIn(ctx, s.db, caller.user.ID, member.OrganizationID, permissions.RoleOwner, permissions.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("permission service: %w", err)
	}
	if !ok {
		return nil, ErrOverrideForbidden
	}
	return member, nil
}

// upsert inserts the override row or updates only the patched columns in a
// single statement.
func (s *PermissionService) upsert(ctx context.Context, member *models.OrganizationMember, patch permissions.Patch) error {
	now := s.now()
	row := models.UserPermission{
		UserID:         member.UserID,
		OrganizationID: member.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	row.Apply(patch)

	keys := patch.Keys()
	columns := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		columns = append(columns, models.PermissionColumn(key))
	}
	columns = append(columns, "updated_at")

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("permission service: upsert override: %w", err)
	}
	return nil
}

func loadTemplate(ctx context.Context, db *gorm.DB, id string) (*models.PermissionTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrTemplateNotFound
	}

	var tmpl models.PermissionTemplate
	err := db.WithContext(ctx).Take(&tmpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return &tmpl, nil
}

func templateVisibleTo(tmpl *models.PermissionTemplate, organizationID string) bool {
	return tmpl.IsGlobal() || (organizationID != "" && *tmpl.OrganizationID == organizationID)
}

// visibleTemplates lists global templates plus those owned by organizationID,
// in display order.
func visibleTemplates(ctx context.Context, db *gorm.DB, organizationID string) ([]models.PermissionTemplate, error) {
	scopes := []string{models.GlobalTemplateScope}
	if organizationID != "" {
		scopes = append(scopes, models.TemplateScope(&organizationID))
	}

	var templates []models.PermissionTemplate
	if err := db.WithContext(ctx).
		Where("scope IN ?", scopes).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}
