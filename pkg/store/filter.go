package store

import (
	"strings"

	"github.com/jdziat/livejobs/pkg/core"
)

// Filter returns the jobs of snapshot matching c, in snapshot order.
// The snapshot is not modified. An empty criteria returns every job.
func Filter(snapshot core.JobSnapshot, c core.FilterCriteria) core.JobSnapshot {
	out := make(core.JobSnapshot, 0, len(snapshot))
	search := strings.ToLower(c.SearchText)
	for _, job := range snapshot {
		if Match(job, c.Status, c.Priority, search) {
			out = append(out, job)
		}
	}
	return out
}

// statusEqual compares case-insensitively and treats wire aliases such as
// SUCCESS and SUCCEEDED as the same status.
func statusEqual(have core.JobStatus, want string) bool {
	if strings.EqualFold(string(have), want) {
		return true
	}
	return have.Canonical() == core.JobStatus(want).Canonical()
}

// Match reports whether job passes the filter. search must already be lower case.
func Match(job core.Job, status, priority, search string) bool {
	// The reference backend sends QUEUED, SUCCESS and DLQ for CREATED,
	// SUCCEEDED and DEAD_LETTERED, so a filter on either spelling matches.
	if status != "" && !statusEqual(job.Status, status) {
		return false
	}
	if priority != "" && !strings.EqualFold(string(job.Priority), priority) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(job.JobType), search) &&
		!strings.Contains(strings.ToLower(job.ID), search) {
		return false
	}
	return true
}
