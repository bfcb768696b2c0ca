package models

// OrganizationMember ties a user to an organization with a role. A user is
// expected to hold a single membership; lookups take the earliest row.
type OrganizationMember struct {
	BaseModel

	OrganizationID string        `gorm:"type:uuid;not null;uniqueIndex:idx_member_org_user" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`
	UserID         string        `gorm:"type:uuid;not null;index;uniqueIndex:idx_member_org_user" json:"user_id"`
	User           *User         `json:"user,omitempty"`
	Role           string        `gorm:"size:32;not null;default:agent" json:"role"`
}
