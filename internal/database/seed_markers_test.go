package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/orgdesk/internal/models"
)

func TestSeedMarkers(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.SeedMarker{}))
	ctx := context.Background()

	applied, err := SeedApplied(ctx, db, "templates.v1")
	require.NoError(t, err)
	require.False(t, applied)

	require.NoError(t, MarkSeedApplied(ctx, db, "templates.v1"))
	var first models.SeedMarker
	require.NoError(t, db.First(&first, "name = ?", "templates.v1").Error)

	require.NoError(t, MarkSeedApplied(ctx, db, " templates.v1 "))
	var again models.SeedMarker
	require.NoError(t, db.First(&again, "name = ?", "templates.v1").Error)
	require.True(t, first.AppliedAt.Equal(again.AppliedAt))

	applied, err = SeedApplied(ctx, db, "templates.v1")
	require.NoError(t, err)
	require.True(t, applied)

	require.Error(t, MarkSeedApplied(ctx, db, "  "))
}

func TestSeedAppliedRequiresSchema(t *testing.T) {
	db := openTestDB(t)

	_, err := SeedApplied(context.Background(), db, "templates.v1")
	require.Error(t, err)
}
