package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/permissions"
)

// GlobalTemplateScope marks templates created by a superadmin for every organization.
const GlobalTemplateScope = "global"

// PermissionTemplate is a named vector that can be copied onto a user's override.
// Applying a template copies its values; nothing references the template afterwards.
type PermissionTemplate struct {
	BaseModel

	OrganizationID *string `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	// Scope mirrors OrganizationID so (scope, name) can be unique for global rows too.
	Scope       string                              `gorm:"size:64;not null;uniqueIndex:idx_template_scope_name" json:"-"`
	Name        string                              `gorm:"size:120;not null;uniqueIndex:idx_template_scope_name" json:"name"`
	Description string                              `json:"description"`
	Icon        string                              `gorm:"size:64" json:"icon"`
	Permissions datatypes.JSONType[map[string]bool] `json:"-"`
	SortOrder   int                                 `gorm:"not null;default:0;index" json:"sort_order"`
	IsDefault   bool                                `gorm:"default:false" json:"is_default"`
}

// BeforeSave derives the uniqueness scope from the owning organization.
func (t *PermissionTemplate) BeforeSave(tx *gorm.DB) error {
	t.Scope = TemplateScope(t.OrganizationID)
	return nil
}

// TemplateScope returns the scope value for templates owned by organizationID.
func TemplateScope(organizationID *string) string {
	if organizationID == nil || *organizationID == "" {
		return GlobalTemplateScope
	}
	return "org:" + *organizationID
}

// IsGlobal reports whether the template belongs to no organization.
func (t *PermissionTemplate) IsGlobal() bool {
	return t.OrganizationID == nil || *t.OrganizationID == ""
}

// Vector expands the stored flags onto an all-false vector.
func (t *PermissionTemplate) Vector() permissions.Vector {
	return permissions.FromMap(t.Permissions.Data())
}

// SetVector stores every catalog key of v.
func (t *PermissionTemplate) SetVector(v permissions.Vector) {
	t.Permissions = datatypes.NewJSONType(v.Map())
}
