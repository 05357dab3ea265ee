package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jdziat/livejobs/pkg/core"
)

// ErrNoSnapshot is returned by LoadSnapshot when nothing was saved yet.
var ErrNoSnapshot = errors.New("livejobs: no cached snapshot")

// GormStorage stores samples and snapshots using GORM.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a new GORM-backed storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// DB returns the underlying database handle.
func (s *GormStorage) DB() *gorm.DB {
	return s.db
}

// IsSQLite reports whether the database uses the SQLite dialect.
func (s *GormStorage) IsSQLite() bool {
	return s.db != nil && s.db.Dialector.Name() == "sqlite"
}

// Close closes the underlying connection pool.
func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the necessary tables.
func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&StatSample{}, &SnapshotRecord{})
}

// RecordSample stores one sample. Samples are bucketed by second; a second
// sample in the same bucket overlays its present fields on the first.
func (s *GormStorage) RecordSample(ctx context.Context, backend string, ts time.Time, summary core.StatsSummary) error {
	ts = ts.UTC().Truncate(time.Second)

	var existing StatSample
	result := s.db.WithContext(ctx).
		Where("backend = ? AND timestamp = ?", backend, ts).
		First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(NewStatSample(backend, ts, summary)).Error
	}
	if result.Error != nil {
		return result.Error
	}

	merged := NewStatSample(backend, ts, existing.Summary().Merge(summary))
	merged.ID = existing.ID
	return s.db.WithContext(ctx).Save(merged).Error
}

// Times are stored in UTC so that SQLite's text comparison orders them.

// GetHistory returns samples for backend in [since, until], oldest first.
// Zero bounds are open. An empty backend matches every backend.
func (s *GormStorage) GetHistory(ctx context.Context, backend string, since, until time.Time) ([]StatSample, error) {
	var samples []StatSample
	q := s.db.WithContext(ctx).Order("timestamp ASC")

	if backend != "" {
		q = q.Where("backend = ?", backend)
	}
	if !since.IsZero() {
		q = q.Where("timestamp >= ?", since.UTC())
	}
	if !until.IsZero() {
		q = q.Where("timestamp <= ?", until.UTC())
	}

	return samples, q.Find(&samples).Error
}

// PruneSamples deletes samples older than before.
func (s *GormStorage) PruneSamples(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("timestamp < ?", before.UTC()).Delete(&StatSample{})
	return result.RowsAffected, result.Error
}

// SaveSnapshot replaces the cached snapshot of kind for backend.
func (s *GormStorage) SaveSnapshot(ctx context.Context, backend string, kind core.SnapshotKind, seq uint64, jobs core.JobSnapshot) error {
	data, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rec := SnapshotRecord{Backend: backend, Kind: kind, Seq: seq, Jobs: data, SavedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "backend"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"seq", "jobs", "saved_at"}),
	}).Create(&rec).Error
}

// LoadSnapshot returns the cached snapshot of kind for backend and when it
// was saved. It returns ErrNoSnapshot when nothing is cached.
func (s *GormStorage) LoadSnapshot(ctx context.Context, backend string, kind core.SnapshotKind) (core.JobSnapshot, time.Time, error) {
	var rec SnapshotRecord
	err := s.db.WithContext(ctx).
		Where("backend = ? AND kind = ?", backend, kind).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var jobs core.JobSnapshot
	if err := json.Unmarshal(rec.Jobs, &jobs); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if jobs == nil {
		jobs = core.JobSnapshot{}
	}
	return jobs, rec.SavedAt, nil
}
