package ui

import (
	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
)

// Source is the session surface the dashboard reads and drives.
type Source interface {
	View() core.JobSnapshot
	Jobs() core.JobSnapshot
	DLQ() core.JobSnapshot
	Stats() core.StatsSummary
	ConnectionState() core.ChannelState
	LiveMode() bool
	ToggleLive() bool
	SetFilter(c core.FilterCriteria)
	Filter() core.FilterCriteria
	Refresh(targets ...core.PollTarget)
	Events() <-chan core.Event
	Unsubscribe(ch <-chan core.Event)
}

// NoticeSource delivers notices to display.
type NoticeSource interface {
	Notices() <-chan notify.Notice
	Unsubscribe(ch <-chan notify.Notice)
}
