package session

import (
	"fmt"
	"time"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/security"
)

// describe returns the notice shown for a job lifecycle event.
func describe(e *core.JobEvent) (notify.Level, string, time.Duration) {
	p := e.Payload
	short := security.ShortID(p.ID)
	switch e.Type {
	case core.EventJobCreated:
		return notify.LevelInfo, fmt.Sprintf("Job created: %s… (%s)", short, p.JobType), 3000 * time.Millisecond
	case core.EventJobStarted:
		return notify.LevelInfo, fmt.Sprintf("Running: %s… (%s)", short, p.JobType), 2500 * time.Millisecond
	case core.EventJobCompleted:
		result := "OK"
		if p.Result != nil && *p.Result != "" {
			result = *p.Result
		}
		return notify.LevelSuccess, fmt.Sprintf("Completed: %s… — %s", short, result), 4000 * time.Millisecond
	case core.EventJobRetry:
		return notify.LevelWarn, fmt.Sprintf("Retry %d/%d: %s… in %.1fs",
			p.Attempt, p.MaxRetries, short, float64(p.RetryInMs)/1000), 5000 * time.Millisecond
	case core.EventJobFailed:
		return notify.LevelError, fmt.Sprintf("Failed → DLQ: %s…", short), 6000 * time.Millisecond
	}
	return notify.LevelInfo, fmt.Sprintf("%s: %s…", e.Type, short), notify.DefaultTTL
}
