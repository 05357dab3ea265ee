package poll

import (
	"log/slog"
	"time"
)

// DefaultInterval is the period of both refresh timers.
const DefaultInterval = 10 * time.Second

// DefaultKeepAliveSpec is the keep-alive cron schedule.
const DefaultKeepAliveSpec = "@every 4m"

// Option configures a Scheduler.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	jobsInterval  time.Duration
	statsInterval time.Duration
	logger        *slog.Logger
	indicator     func(on bool)
}

// WithInterval sets the period of both timers. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.jobsInterval = d
			c.statsInterval = d
		}
	})
}

// WithJobsInterval sets the period of the job snapshot timer.
func WithJobsInterval(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.jobsInterval = d
		}
	})
}

// WithStatsInterval sets the period of the statistics timer.
func WithStatsInterval(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.statsInterval = d
		}
	})
}

// WithLogger sets the logger used by the underlying cron runner.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithIndicator registers a callback invoked with the new live mode on every
// SetLiveMode call.
func WithIndicator(fn func(on bool)) Option {
	return optionFunc(func(c *config) {
		c.indicator = fn
	})
}
