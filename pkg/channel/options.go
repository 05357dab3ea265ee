package channel

import (
	"log/slog"
	"time"
)

// DefaultReconnectDelay is the fixed wait before a reconnect attempt.
const DefaultReconnectDelay = 5 * time.Second

// Option configures an EventChannel.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	reconnectDelay time.Duration
	logger         *slog.Logger
}

// WithReconnectDelay sets the wait between a failure and the reconnect attempt.
// Non-positive values are ignored.
func WithReconnectDelay(d time.Duration) Option {
	return optionFunc(func(c *config) {
		if d > 0 {
			c.reconnectDelay = d
		}
	})
}

// WithLogger sets the logger for connection diagnostics.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}
