package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule defines when a recurring task should run next.
// Any Schedule satisfies cron.Schedule.
type Schedule interface {
	Next(from time.Time) time.Time
}

// everySchedule runs at fixed intervals.
type everySchedule struct {
	interval time.Duration
}

// Every creates a schedule that runs at fixed intervals.
// Unlike cron.Every it keeps sub-second precision.
func Every(d time.Duration) Schedule {
	return &everySchedule{interval: d}
}

func (s *everySchedule) Next(from time.Time) time.Time {
	return from.Add(s.interval)
}

func (s *everySchedule) String() string {
	return "@every " + s.interval.String()
}

// cronSchedule wraps a cron expression.
type cronSchedule struct {
	expr     string
	schedule cron.Schedule
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron parses a five-field cron expression or a descriptor such as "@every 4m".
func ParseCron(expr string) (Schedule, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return &cronSchedule{expr: expr, schedule: sched}, nil
}

// Cron creates a schedule from a cron expression and panics if it is invalid.
func Cron(expr string) Schedule {
	s, err := ParseCron(expr)
	if err != nil {
		panic(err.Error())
	}
	return s
}

func (s *cronSchedule) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

func (s *cronSchedule) String() string {
	return s.expr
}
