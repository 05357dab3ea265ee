package session

import (
	"time"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/store"
)

// View returns the filtered job snapshot in arrival order.
func (s *Session) View() core.JobSnapshot {
	return s.jobs.View()
}

// Jobs returns the unfiltered job snapshot.
func (s *Session) Jobs() core.JobSnapshot {
	return s.jobs.Jobs()
}

// DLQ returns the dead-lettered jobs.
func (s *Session) DLQ() core.JobSnapshot {
	return s.dlq.Jobs()
}

// Stats returns the displayed statistics.
func (s *Session) Stats() core.StatsSummary {
	return s.stats.Current()
}

// ConnectionState returns the push channel state.
func (s *Session) ConnectionState() core.ChannelState {
	return s.channel.State()
}

// LiveMode reports whether periodic refresh is on.
func (s *Session) LiveMode() bool {
	return s.poller.LiveMode()
}

// SetLiveMode arms or cancels the refresh timers. The push channel is unaffected.
func (s *Session) SetLiveMode(on bool) {
	s.poller.SetLiveMode(on)
}

// ToggleLive flips live mode and returns the new value.
func (s *Session) ToggleLive() bool {
	on := !s.poller.LiveMode()
	s.poller.SetLiveMode(on)
	return on
}

// SetFilter replaces the view criteria.
func (s *Session) SetFilter(c core.FilterCriteria) {
	s.jobs.SetFilter(c)
	s.Emit(&core.FilterChanged{Criteria: c, Timestamp: time.Now()})
}

// Filter returns the view criteria.
func (s *Session) Filter() core.FilterCriteria {
	return s.jobs.Filter()
}

// Refresh asks the session to refetch the given targets, or all when none
// are given. It does not wait for the fetches.
func (s *Session) Refresh(targets ...core.PollTarget) {
	s.post(&core.RefreshRequested{Targets: targets, Timestamp: time.Now()})
}

// LastPing returns the time of the last successful keep-alive ping, or zero.
func (s *Session) LastPing() time.Time {
	if t := s.lastPing.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Seed loads a previously cached snapshot at sequence 0 so any real fetch
// supersedes it. It reports whether the snapshot was applied.
func (s *Session) Seed(jobs core.JobSnapshot) bool {
	return s.jobs.ReplaceSnapshot(0, jobs)
}

// SeedDLQ is Seed for the dead-letter list.
func (s *Session) SeedDLQ(jobs core.JobSnapshot) bool {
	return s.dlq.ReplaceSnapshot(0, jobs)
}

// JobStore exposes the job store for read-only collaborators.
func (s *Session) JobStore() *store.JobStore {
	return s.jobs
}

// Events returns a channel receiving the session's change events:
// SnapshotApplied, StatsApplied, ChannelStateChanged, LiveModeChanged,
// FilterChanged, JobEvent and PingCompleted.
// Slow readers miss events rather than blocking the session.
func (s *Session) Events() <-chan core.Event {
	ch := make(chan core.Event, 100)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel created by Events. The channel is not closed.
func (s *Session) Unsubscribe(ch <-chan core.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Emit sends e to all subscribers.
func (s *Session) Emit(e core.Event) {
	s.mu.RLock()
	subs := make([]chan core.Event, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- e:
		default:
		}
	}
}
