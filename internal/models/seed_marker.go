package models

import "time"

// SeedMarker records a seed revision that has already been applied, so
// rows removed by admins afterwards stay removed.
type SeedMarker struct {
	Name      string    `gorm:"primaryKey;size:128" json:"name"`
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
}
