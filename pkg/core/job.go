package core

import (
	"encoding/json"
	"strings"
	"time"
)

// JobStatus represents the backend state of a job.
type JobStatus string

const (
	StatusCreated        JobStatus = "CREATED"
	StatusRunning        JobStatus = "RUNNING"
	StatusSucceeded      JobStatus = "SUCCEEDED"
	StatusFailed         JobStatus = "FAILED"
	StatusDeadLettered   JobStatus = "DEAD_LETTERED"
	StatusRetryScheduled JobStatus = "RETRY_SCHEDULED"

	// Spellings used on the wire by the reference backend.
	StatusQueued  JobStatus = "QUEUED"
	StatusSuccess JobStatus = "SUCCESS"
	StatusDLQ     JobStatus = "DLQ"
)

// Canonical maps wire aliases onto the canonical status set.
// Unknown values are returned unchanged.
func (s JobStatus) Canonical() JobStatus {
	switch JobStatus(strings.ToUpper(string(s))) {
	case StatusQueued, StatusCreated:
		return StatusCreated
	case StatusSuccess, StatusSucceeded:
		return StatusSucceeded
	case StatusDLQ, StatusDeadLettered:
		return StatusDeadLettered
	case StatusRunning:
		return StatusRunning
	case StatusFailed:
		return StatusFailed
	case StatusRetryScheduled:
		return StatusRetryScheduled
	}
	return s
}

// Priority is the queue a job was submitted to.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// Job is the client's read-only copy of a backend job.
type Job struct {
	ID           string          `json:"id"`
	JobType      string          `json:"jobType"`
	Status       JobStatus       `json:"status"`
	Priority     Priority        `json:"priority"`
	AttemptCount int             `json:"attemptCount"`
	MaxRetries   int             `json:"maxRetries"`
	UserID       string          `json:"userId"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Result       *string         `json:"result,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`

	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	WorkflowID  string     `json:"workflowId,omitempty"`
	DependsOn   string     `json:"dependsOn,omitempty"`
}

// ResultText returns the result or an empty string when none was reported.
func (j *Job) ResultText() string {
	if j.Result == nil {
		return ""
	}
	return *j.Result
}

// JobSnapshot is the ordered result of one jobs fetch.
type JobSnapshot []Job

// FilterCriteria narrows a snapshot to the rendered subset.
// Empty fields are unset.
type FilterCriteria struct {
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	SearchText string `json:"searchText,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.Status == "" && c.Priority == "" && c.SearchText == ""
}
