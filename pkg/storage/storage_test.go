package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/livejobs/pkg/core"
)

func setupTestStorage(t *testing.T) *GormStorage {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_SQLite(t *testing.T) {
	s := setupTestStorage(t)
	assert.True(t, s.IsSQLite())
	assert.True(t, s.DB().Migrator().HasTable(&StatSample{}))
	assert.True(t, s.DB().Migrator().HasTable(&SnapshotRecord{}))
}

func TestRecordSample_MergesWithinSecond(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 100, time.UTC)

	require.NoError(t, s.RecordSample(ctx, "a", ts, core.StatsSummary{
		TotalQueued: core.Int64(3),
		SuccessRate: core.Float64(91.5),
	}))
	require.NoError(t, s.RecordSample(ctx, "a", ts.Add(200*time.Millisecond), core.StatsSummary{
		TotalQueued:  core.Int64(4),
		AvgLatencyMs: core.Float64(120),
	}))

	samples, err := s.GetHistory(ctx, "a", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, samples, 1)

	got := samples[0].Summary()
	require.NotNil(t, got.TotalQueued)
	assert.Equal(t, int64(4), *got.TotalQueued)
	require.NotNil(t, got.SuccessRate)
	assert.Equal(t, 91.5, *got.SuccessRate)
	require.NotNil(t, got.AvgLatencyMs)
	assert.Equal(t, 120.0, *got.AvgLatencyMs)
	assert.Nil(t, got.RetryRate)
}

func TestRecordSample_KeepsAbsentFieldsNull(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.RecordSample(ctx, "a", time.Now(), core.StatsSummary{TotalDlq: core.Int64(0)}))

	samples, err := s.GetHistory(ctx, "a", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.NotNil(t, samples[0].TotalDlq)
	assert.Equal(t, int64(0), *samples[0].TotalDlq)
	assert.Nil(t, samples[0].TotalQueued)
	assert.Nil(t, samples[0].ThroughputPerMinute)
}

func TestGetHistory_Range(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordSample(ctx, "a", base.Add(time.Duration(i)*time.Minute), core.StatsSummary{
			TotalRunning: core.Int64(int64(i)),
		}))
	}
	require.NoError(t, s.RecordSample(ctx, "b", base.Add(2*time.Minute), core.StatsSummary{}))

	samples, err := s.GetHistory(ctx, "a", base.Add(time.Minute), base.Add(3*time.Minute))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	for i, sample := range samples {
		assert.Equal(t, int64(i+1), *sample.TotalRunning)
	}

	all, err := s.GetHistory(ctx, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestGetHistory_LocalBounds(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordSample(ctx, "a", ts, core.StatsSummary{}))

	zone := time.FixedZone("plus2", 2*60*60)
	samples, err := s.GetHistory(ctx, "a", ts.In(zone).Add(-time.Second), ts.In(zone).Add(time.Second))
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestPruneSamples(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.RecordSample(ctx, "a", now.Add(-2*time.Hour), core.StatsSummary{}))
	require.NoError(t, s.RecordSample(ctx, "a", now.Add(-90*time.Minute), core.StatsSummary{}))
	require.NoError(t, s.RecordSample(ctx, "a", now, core.StatsSummary{}))

	n, err := s.PruneSamples(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	samples, err := s.GetHistory(ctx, "a", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestSnapshot_SaveLoad(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, _, err := s.LoadSnapshot(ctx, "a", core.SnapshotJobs)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	result := "ok"
	first := core.JobSnapshot{
		{ID: "job-1", JobType: "email", Status: core.StatusRunning, Priority: core.PriorityHigh},
		{ID: "job-2", JobType: "report", Status: core.StatusSucceeded, Result: &result},
	}
	require.NoError(t, s.SaveSnapshot(ctx, "a", core.SnapshotJobs, 1, first))

	got, savedAt, err := s.LoadSnapshot(ctx, "a", core.SnapshotJobs)
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
	require.Len(t, got, 2)
	assert.Equal(t, "job-1", got[0].ID)
	assert.Equal(t, "ok", got[1].ResultText())

	require.NoError(t, s.SaveSnapshot(ctx, "a", core.SnapshotJobs, 2, core.JobSnapshot{{ID: "job-3"}}))
	got, _, err = s.LoadSnapshot(ctx, "a", core.SnapshotJobs)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "job-3", got[0].ID)

	var count int64
	require.NoError(t, s.DB().Model(&SnapshotRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, _, err = s.LoadSnapshot(ctx, "a", core.SnapshotDLQ)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, _, err = s.LoadSnapshot(ctx, "b", core.SnapshotJobs)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshot_EmptyLoadsAsEmpty(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, "a", core.SnapshotDLQ, 3, nil))
	got, _, err := s.LoadSnapshot(ctx, "a", core.SnapshotDLQ)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestConfigurePool(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, ConfigurePool(s.DB(), MaxOpenConns(1), MaxIdleConns(1), ConnMaxLifetime(time.Hour)))

	sqlDB, err := s.DB().DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
