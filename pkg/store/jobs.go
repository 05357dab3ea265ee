package store

import (
	"sync/atomic"
	"time"

	"github.com/jdziat/livejobs/pkg/core"
)

type jobsState struct {
	jobs      core.JobSnapshot
	seq       uint64
	appliedAt time.Time
}

// JobStore holds one snapshot and the criteria applied to it.
type JobStore struct {
	state    atomic.Pointer[jobsState]
	criteria atomic.Pointer[core.FilterCriteria]
}

// NewJobStore creates a store with an empty snapshot at sequence 0.
func NewJobStore() *JobStore {
	s := &JobStore{}
	s.state.Store(&jobsState{jobs: core.JobSnapshot{}})
	s.criteria.Store(&core.FilterCriteria{})
	return s
}

// ReplaceSnapshot swaps in jobs as the current snapshot if seq is newer than
// the applied sequence. Sequence 0 only applies to a store that has never
// received a snapshot. It reports whether the snapshot was applied.
func (s *JobStore) ReplaceSnapshot(seq uint64, jobs core.JobSnapshot) bool {
	next := &jobsState{jobs: clone(jobs), seq: seq, appliedAt: time.Now()}
	for {
		cur := s.state.Load()
		if seq < cur.seq || (seq == cur.seq && !cur.appliedAt.IsZero()) {
			return false
		}
		if s.state.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// SetFilter replaces the criteria. The snapshot is not touched.
func (s *JobStore) SetFilter(c core.FilterCriteria) {
	s.criteria.Store(&c)
}

// Filter returns the current criteria.
func (s *JobStore) Filter() core.FilterCriteria {
	return *s.criteria.Load()
}

// View returns the filtered snapshot in arrival order.
func (s *JobStore) View() core.JobSnapshot {
	return Filter(s.state.Load().jobs, s.Filter())
}

// Jobs returns a copy of the unfiltered snapshot.
func (s *JobStore) Jobs() core.JobSnapshot {
	return clone(s.state.Load().jobs)
}

// Len returns the size of the unfiltered snapshot.
func (s *JobStore) Len() int {
	return len(s.state.Load().jobs)
}

// Seq returns the sequence number of the applied snapshot.
func (s *JobStore) Seq() uint64 {
	return s.state.Load().seq
}

// AppliedAt returns when the current snapshot was applied, or zero.
func (s *JobStore) AppliedAt() time.Time {
	return s.state.Load().appliedAt
}

func clone(jobs core.JobSnapshot) core.JobSnapshot {
	out := make(core.JobSnapshot, len(jobs))
	copy(out, jobs)
	return out
}
