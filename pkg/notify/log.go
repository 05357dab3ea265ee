package notify

import (
	"context"
	"log/slog"
	"time"
)

// LogNotifier writes notices to a slog.Logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

func (l *LogNotifier) Notify(level Level, message string, ttl time.Duration) {
	l.Logger.Log(context.Background(), slogLevel(level), message, "notice", string(level), "ttl", ttl)
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
