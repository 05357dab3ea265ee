package notify

import (
	"time"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// DefaultTTL is how long a notice stays visible when no TTL is given.
const DefaultTTL = 4 * time.Second

// Notice is one transient message.
type Notice struct {
	ID      string
	Level   Level
	Message string
	TTL     time.Duration
	At      time.Time
}

// ExpiresAt returns when the notice should disappear.
func (n Notice) ExpiresAt() time.Time {
	return n.At.Add(n.TTL)
}

// Expired reports whether the notice is past its TTL at now.
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt())
}

// Notifier surfaces a message to the user.
// Implementations must be safe for concurrent use and must not block.
type Notifier interface {
	Notify(level Level, message string, ttl time.Duration)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string, ttl time.Duration)

func (f NotifierFunc) Notify(level Level, message string, ttl time.Duration) {
	f(level, message, ttl)
}

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Level, string, time.Duration) {})

type multi []Notifier

func (m multi) Notify(level Level, message string, ttl time.Duration) {
	for _, n := range m {
		n.Notify(level, message, ttl)
	}
}

// Multi returns a Notifier that forwards to every non-nil notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	out := make(multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
