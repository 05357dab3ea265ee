package session

import (
	"log/slog"
	"time"

	"github.com/jdziat/livejobs/pkg/channel"
	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/poll"
	"github.com/jdziat/livejobs/pkg/schedule"
)

// Option configures a Session.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	notifier       notify.Notifier
	logger         *slog.Logger
	pollInterval   time.Duration
	reconnectDelay time.Duration
	keepAlive      schedule.Schedule
	keepAliveOff   bool
	fetchTimeout   time.Duration
	inboxSize      int
	startLive      bool
	trackDLQ       bool
}

func defaultConfig() config {
	return config{
		notifier:       notify.Discard,
		logger:         slog.Default(),
		pollInterval:   poll.DefaultInterval,
		reconnectDelay: channel.DefaultReconnectDelay,
		fetchTimeout:   30 * time.Second,
		inboxSize:      256,
		startLive:      true,
		trackDLQ:       true,
	}
}

// WithNotifier sets where event notices are shown.
func WithNotifier(n notify.Notifier) Option {
	return optionFunc(func(c *config) {
		if n != nil {
			c.notifier = n
		}
	})
}

// WithLogger sets the session logger. It is passed to the channel and scheduler.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithPollInterval sets the period of the refresh timers. Default: 10s.
func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	})
}

// WithReconnectDelay sets the push channel reconnect delay. Default: 5s.
func WithReconnectDelay(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.reconnectDelay = d
		}
	})
}

// WithKeepAlive sets the keep-alive ping schedule. Default: every 4 minutes.
func WithKeepAlive(s schedule.Schedule) Option {
	return optionFunc(func(c *config) {
		c.keepAlive = s
		c.keepAliveOff = false
	})
}

// WithoutKeepAlive disables the keep-alive ping.
func WithoutKeepAlive() Option {
	return optionFunc(func(c *config) {
		c.keepAliveOff = true
	})
}

// WithFetchTimeout bounds every fetch issued by the session. Default: 30s.
func WithFetchTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.fetchTimeout = d
		}
	})
}

// WithInboxSize sets the capacity of the event inbox. Default: 256.
func WithInboxSize(n int) Option {
	return optionFunc(func(c *config) {
		if n > 0 {
			c.inboxSize = n
		}
	})
}

// WithStartLive sets whether Run turns live mode on at startup. Default: true.
func WithStartLive(on bool) Option {
	return optionFunc(func(c *config) {
		c.startLive = on
	})
}

// WithDLQ sets whether the session keeps the DLQ list fresh. Default: true.
func WithDLQ(enabled bool) Option {
	return optionFunc(func(c *config) {
		c.trackDLQ = enabled
	})
}
