package storage

import (
	"time"

	"github.com/jdziat/livejobs/pkg/core"
)

// StatSample is one fetched StatsSummary. A NULL column was absent from the
// response.
type StatSample struct {
	ID        uint      `gorm:"primaryKey"`
	Backend   string    `gorm:"index:idx_stat_samples_backend_ts;size:512;not null"`
	Timestamp time.Time `gorm:"index:idx_stat_samples_backend_ts;not null"`

	HighQueueSize   *int64
	NormalQueueSize *int64
	LowQueueSize    *int64
	TotalQueued     *int64
	TotalRunning    *int64
	TotalSuccess    *int64
	TotalFailed     *int64
	TotalDlq        *int64
	TotalProcessed  *int64

	SuccessRate         *float64
	RetryRate           *float64
	ThroughputPerMinute *float64
	AvgLatencyMs        *float64
}

// NewStatSample copies the present fields of s.
func NewStatSample(backend string, ts time.Time, s core.StatsSummary) *StatSample {
	c := s.Clone()
	return &StatSample{
		Backend:             backend,
		Timestamp:           ts,
		HighQueueSize:       c.HighQueueSize,
		NormalQueueSize:     c.NormalQueueSize,
		LowQueueSize:        c.LowQueueSize,
		TotalQueued:         c.TotalQueued,
		TotalRunning:        c.TotalRunning,
		TotalSuccess:        c.TotalSuccess,
		TotalFailed:         c.TotalFailed,
		TotalDlq:            c.TotalDlq,
		TotalProcessed:      c.TotalProcessed,
		SuccessRate:         c.SuccessRate,
		RetryRate:           c.RetryRate,
		ThroughputPerMinute: c.ThroughputPerMinute,
		AvgLatencyMs:        c.AvgLatencyMs,
	}
}

// Summary converts the sample back to a StatsSummary.
func (s *StatSample) Summary() core.StatsSummary {
	return core.StatsSummary{
		HighQueueSize:       s.HighQueueSize,
		NormalQueueSize:     s.NormalQueueSize,
		LowQueueSize:        s.LowQueueSize,
		TotalQueued:         s.TotalQueued,
		TotalRunning:        s.TotalRunning,
		TotalSuccess:        s.TotalSuccess,
		TotalFailed:         s.TotalFailed,
		TotalDlq:            s.TotalDlq,
		TotalProcessed:      s.TotalProcessed,
		SuccessRate:         s.SuccessRate,
		RetryRate:           s.RetryRate,
		ThroughputPerMinute: s.ThroughputPerMinute,
		AvgLatencyMs:        s.AvgLatencyMs,
	}.Clone()
}

// SnapshotRecord is the last applied snapshot of one kind for one backend.
type SnapshotRecord struct {
	Backend string            `gorm:"primaryKey;size:512"`
	Kind    core.SnapshotKind `gorm:"primaryKey;size:16"`
	Seq     uint64
	Jobs    []byte `gorm:"type:blob"`
	SavedAt time.Time
}
