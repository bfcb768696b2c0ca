// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"strings"
	"testing"
	"unicode"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/database"
)

// TestDBOption customises MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	migrate bool
	seed    bool
}

// WithAutoMigrate creates the schema without the built-in templates.
func WithAutoMigrate() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.migrate = true
	}
}

// WithSeedData creates the schema and the built-in global templates.
func WithSeedData() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.migrate = true
		cfg.seed = true
	}
}

// MustOpenTestDB opens a private in-memory SQLite database named after the
// test and closes it when the test ends.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	var cfg testDBConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	name := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, t.Name()) + "_" + uuid.NewString()
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: database.MemoryDSN(name)})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	switch {
	case cfg.seed:
		require.NoError(t, database.AutoMigrateAndSeed(db))
	case cfg.migrate:
		require.NoError(t, database.AutoMigrate(db))
	}

	return db
}
