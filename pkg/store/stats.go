package store

import (
	"sync/atomic"

	"github.com/jdziat/livejobs/pkg/core"
)

type statsState struct {
	summary core.StatsSummary
	seq     uint64
	applied bool
}

// StatsStore holds the displayed statistics. Each fetched summary is merged
// over the displayed one, so a field the backend omitted keeps its value.
type StatsStore struct {
	state atomic.Pointer[statsState]
}

// NewStatsStore creates a store with no field computed.
func NewStatsStore() *StatsStore {
	s := &StatsStore{}
	s.state.Store(&statsState{})
	return s
}

// Apply merges summary if seq is newer than the applied sequence and returns
// the displayed summary and whether it was applied.
func (s *StatsStore) Apply(seq uint64, summary core.StatsSummary) (core.StatsSummary, bool) {
	for {
		cur := s.state.Load()
		if seq < cur.seq || (seq == cur.seq && cur.applied) {
			return cur.summary.Clone(), false
		}
		next := &statsState{summary: cur.summary.Merge(summary), seq: seq, applied: true}
		if s.state.CompareAndSwap(cur, next) {
			return next.summary.Clone(), true
		}
	}
}

// Current returns a copy of the displayed summary.
func (s *StatsStore) Current() core.StatsSummary {
	return s.state.Load().summary.Clone()
}

// Seq returns the sequence number of the last applied summary.
func (s *StatsStore) Seq() uint64 {
	return s.state.Load().seq
}
