package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/orgdesk/internal/models"
)

// SeedApplied reports whether the named seed revision has run.
func SeedApplied(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	if db == nil {
		return false, errors.New("seed markers: db is nil")
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&models.SeedMarker{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("seed markers: lookup %q: %w", name, err)
	}
	return count > 0, nil
}

// MarkSeedApplied records the named seed revision. Marking twice keeps the
// first timestamp.
func MarkSeedApplied(ctx context.Context, db *gorm.DB, name string) error {
	if db == nil {
		return errors.New("seed markers: db is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("seed markers: name is required")
	}

	marker := models.SeedMarker{Name: name, AppliedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&marker).Error; err != nil {
		return fmt.Errorf("seed markers: mark %q: %w", name, err)
	}
	return nil
}
