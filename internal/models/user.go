package models

// User is a platform account. This service reads users but never writes them
// outside of seeding and tests.
type User struct {
	BaseModel

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	IsSuperadmin bool   `gorm:"default:false" json:"is_superadmin"`
	IsActive     bool   `gorm:"not null" json:"is_active"`

	Memberships []OrganizationMember `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}
