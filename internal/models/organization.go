package models

import "gorm.io/datatypes"

// Organization is a tenant. Settings holds tenant preferences this service
// stores opaquely.
type Organization struct {
	BaseModel

	Name     string         `gorm:"not null" json:"name"`
	Settings datatypes.JSON `json:"settings"`

	Members []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
}
