package models

import (
	"time"

	"github.com/charlesng35/orgdesk/internal/permissions"
)

// UserPermission is a per-user override. When a row exists for the
// (user, organization) pair it supersedes the role defaults entirely.
// Column names are the catalog key names and must never be renamed.
type UserPermission struct {
	UserID         string `gorm:"primaryKey;type:uuid" json:"user_id"`
	OrganizationID string `gorm:"primaryKey;type:uuid" json:"organization_id"`

	CanViewDashboard        bool `gorm:"column:can_view_dashboard;not null;default:false" json:"-"`
	CanViewCRM              bool `gorm:"column:can_view_crm;not null;default:false" json:"-"`
	CanManageContacts       bool `gorm:"column:can_manage_contacts;not null;default:false" json:"-"`
	CanExportContacts       bool `gorm:"column:can_export_contacts;not null;default:false" json:"-"`
	CanViewConversations    bool `gorm:"column:can_view_conversations;not null;default:false" json:"-"`
	CanSendMessages         bool `gorm:"column:can_send_messages;not null;default:false" json:"-"`
	CanViewAllConversations bool `gorm:"column:can_view_all_conversations;not null;default:false" json:"-"`
	CanViewSchedule         bool `gorm:"column:can_view_schedule;not null;default:false" json:"-"`
	CanManageSchedule       bool `gorm:"column:can_manage_schedule;not null;default:false" json:"-"`
	CanViewTeamChat         bool `gorm:"column:can_view_team_chat;not null;default:false" json:"-"`
	CanViewReports          bool `gorm:"column:can_view_reports;not null;default:false" json:"-"`
	CanViewBilling          bool `gorm:"column:can_view_billing;not null;default:false" json:"-"`
	CanManageBilling        bool `gorm:"column:can_manage_billing;not null;default:false" json:"-"`
	CanManageIntegrations   bool `gorm:"column:can_manage_integrations;not null;default:false" json:"-"`
	CanManageTeam           bool `gorm:"column:can_manage_team;not null;default:false" json:"-"`
	CanViewSettings         bool `gorm:"column:can_view_settings;not null;default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *UserPermission) flags() [permissions.NumKeys]*bool {
	return [permissions.NumKeys]*bool{
		permissions.ViewDashboard:        &p.CanViewDashboard,
		permissions.ViewCRM:              &p.CanViewCRM,
		permissions.ManageContacts:       &p.CanManageContacts,
		permissions.ExportContacts:       &p.CanExportContacts,
		permissions.ViewConversations:    &p.CanViewConversations,
		permissions.SendMessages:         &p.CanSendMessages,
		permissions.ViewAllConversations: &p.CanViewAllConversations,
		permissions.ViewSchedule:         &p.CanViewSchedule,
		permissions.ManageSchedule:       &p.CanManageSchedule,
		permissions.ViewTeamChat:         &p.CanViewTeamChat,
		permissions.ViewReports:          &p.CanViewReports,
		permissions.ViewBilling:          &p.CanViewBilling,
		permissions.ManageBilling:        &p.CanManageBilling,
		permissions.ManageIntegrations:   &p.CanManageIntegrations,
		permissions.ManageTeam:           &p.CanManageTeam,
		permissions.ViewSettings:         &p.CanViewSettings,
	}
}

// Vector returns the stored flags.
func (p *UserPermission) Vector() permissions.Vector {
	var v permissions.Vector
	for i, flag := range p.flags() {
		if flag != nil {
			v[i] = *flag
		}
	}
	return v
}

// Apply writes the patched keys onto the row.
func (p *UserPermission) Apply(patch permissions.Patch) {
	flags := p.flags()
	for key, allowed := range patch {
		if key.Valid() && flags[key] != nil {
			*flags[key] = allowed
		}
	}
}

// PermissionColumn returns the override column storing key.
func PermissionColumn(key permissions.Key) string {
	return key.String()
}
