package core

import "time"

// Event is the interface for all session events.
type Event interface {
	eventMarker()
}

// EventType names a push channel event.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventJobCreated   EventType = "JOB_CREATED"
	EventJobStarted   EventType = "JOB_STARTED"
	EventJobCompleted EventType = "JOB_COMPLETED"
	EventJobFailed    EventType = "JOB_FAILED"
	EventJobRetry     EventType = "JOB_RETRY"
)

// JobEventTypes is the fixed set of job lifecycle events the channel forwards.
var JobEventTypes = []EventType{
	EventJobCreated,
	EventJobStarted,
	EventJobCompleted,
	EventJobFailed,
	EventJobRetry,
}

// IsJobLifecycle reports whether t is one of JobEventTypes.
func (t EventType) IsJobLifecycle() bool {
	for _, jt := range JobEventTypes {
		if t == jt {
			return true
		}
	}
	return false
}

// JobPayload is the decoded body of a job lifecycle event.
// Only ID and JobType are guaranteed; the rest depend on the event type.
type JobPayload struct {
	ID         string
	JobType    string
	Status     string
	Priority   string
	UserID     string
	Result     *string
	Attempt    int
	MaxRetries int
	RetryInMs  int64
	DurationMs int64
}

// JobEvent is posted by the channel for every parsed lifecycle event.
type JobEvent struct {
	Type      EventType
	Payload   JobPayload
	Timestamp time.Time
}

func (*JobEvent) eventMarker() {}

// ChannelStateChanged is posted whenever the push channel changes state.
type ChannelStateChanged struct {
	State     ChannelState
	Timestamp time.Time
}

func (*ChannelStateChanged) eventMarker() {}

// PollTarget selects what a poll tick or fetch refreshes.
type PollTarget string

const (
	TargetJobs  PollTarget = "jobs"
	TargetStats PollTarget = "stats"
	TargetDLQ   PollTarget = "dlq"
)

// PollTick is posted by the poll scheduler on each timer firing.
type PollTick struct {
	Target     PollTarget
	Generation uint64
	Timestamp  time.Time
}

func (*PollTick) eventMarker() {}

// RefreshRequested asks a session to refetch the given targets.
// No targets means all of them.
type RefreshRequested struct {
	Targets   []PollTarget
	Timestamp time.Time
}

func (*RefreshRequested) eventMarker() {}

// FetchCompleted is posted when a fetch returns. Jobs is set for the jobs
// and DLQ targets, Stats for the stats target. Err is set on failure.
type FetchCompleted struct {
	Target    PollTarget
	Seq       uint64
	Jobs      JobSnapshot
	Stats     StatsSummary
	Err       error
	Timestamp time.Time
}

func (*FetchCompleted) eventMarker() {}

// LiveModeChanged is emitted when polling is armed or paused.
type LiveModeChanged struct {
	On        bool
	Timestamp time.Time
}

func (*LiveModeChanged) eventMarker() {}

// SnapshotKind distinguishes the job list from the DLQ list.
type SnapshotKind string

const (
	SnapshotJobs SnapshotKind = "jobs"
	SnapshotDLQ  SnapshotKind = "dlq"
)

// SnapshotApplied is emitted after a fetched snapshot replaced the stored one.
type SnapshotApplied struct {
	Kind      SnapshotKind
	Seq       uint64
	Jobs      JobSnapshot
	Timestamp time.Time
}

func (*SnapshotApplied) eventMarker() {}

// StatsApplied is emitted after a fetched summary was merged into the display.
type StatsApplied struct {
	Seq       uint64
	Fetched   StatsSummary
	Displayed StatsSummary
	Timestamp time.Time
}

func (*StatsApplied) eventMarker() {}

// FilterChanged is emitted when the view criteria change.
type FilterChanged struct {
	Criteria  FilterCriteria
	Timestamp time.Time
}

func (*FilterChanged) eventMarker() {}

// PingCompleted is emitted after a successful keep-alive ping.
type PingCompleted struct {
	Timestamp time.Time
}

func (*PingCompleted) eventMarker() {}
