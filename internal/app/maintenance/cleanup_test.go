package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/orgdesk/internal/cache"
	testutil "github.com/charlesng35/orgdesk/internal/database/testutil"
	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/services"
)

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ctx := context.Background()

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)

	require.NoError(t, auditSvc.Log(ctx, services.AuditEntry{Action: "permissions.override.apply", Result: "success"}))
	require.NoError(t, auditSvc.Log(ctx, services.AuditEntry{Action: "permissions.override.reset", Result: "success"}))

	var stale models.AuditLog
	require.NoError(t, db.Where("action = ?", "permissions.override.apply").First(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().AddDate(0, 0, -10)).Error)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.CacheEntry{Key: "expired", Value: []byte("1"), ExpiresAt: now.Add(-time.Minute)}).Error)
	require.NoError(t, db.Create(&models.CacheEntry{Key: "live", Value: []byte("1"), ExpiresAt: now.Add(time.Hour)}).Error)

	c := NewCleaner(auditSvc, cache.NewDatabaseStore(db),
		WithAuditRetentionDays(7),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)
	require.NoError(t, c.RunOnce(ctx))

	var actions []string
	require.NoError(t, db.Model(&models.AuditLog{}).Pluck("action", &actions).Error)
	require.Equal(t, []string{"permissions.override.reset"}, actions)

	var keys []string
	require.NoError(t, db.Model(&models.CacheEntry{}).Pluck("key", &keys).Error)
	require.Equal(t, []string{"live"}, keys)
}

type failingPruner struct{ err error }

func (f failingPruner) CleanupOlderThan(context.Context, int) (int64, error) { return 0, f.err }

type failingPurger struct{ err error }

func (f failingPurger) PurgeExpired(context.Context) (int64, error) { return 0, f.err }

func TestCleanerRunOnceAggregatesErrors(t *testing.T) {
	auditErr := errors.New("audit down")
	cacheErr := errors.New("cache down")

	c := NewCleaner(failingPruner{auditErr}, failingPurger{cacheErr})
	err := c.RunOnce(context.Background())
	require.ErrorIs(t, err, auditErr)
	require.ErrorIs(t, err, cacheErr)
}

func TestCleanerStartRegistersJobs(t *testing.T) {
	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))
	c := NewCleaner(failingPruner{}, failingPurger{}, WithCron(scheduler), WithCacheSchedule("@hourly"))

	require.NoError(t, c.Start())
	t.Cleanup(func() { <-c.Stop().Done() })
	require.Len(t, scheduler.Entries(), 2)
}

func TestCleanerStartRejectsBadSchedule(t *testing.T) {
	c := NewCleaner(failingPruner{}, nil, WithAuditSchedule("not a schedule"))
	require.Error(t, c.Start())
}

func TestCleanerWithoutJobsIsNoop(t *testing.T) {
	c := NewCleaner(nil, nil)
	require.NoError(t, c.Start())
	require.NoError(t, c.RunOnce(context.Background()))
}
