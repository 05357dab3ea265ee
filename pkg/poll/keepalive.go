package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jdziat/livejobs/pkg/schedule"
)

// Pinger is the keep-alive call. gateway.Gateway satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeepAlive pings the backend on a fixed schedule so it does not idle out.
// Failures are logged at debug level and otherwise ignored.
type KeepAlive struct {
	pinger  Pinger
	sched   schedule.Schedule
	timeout time.Duration
	logger  *slog.Logger
	onPing  func(time.Time)

	mu     sync.Mutex
	runner *cron.Cron
	last   time.Time
}

// NewKeepAlive creates a stopped KeepAlive. onPing, if set, is called after
// every successful ping.
func NewKeepAlive(p Pinger, sched schedule.Schedule, logger *slog.Logger, onPing func(time.Time)) *KeepAlive {
	if sched == nil {
		sched = schedule.Cron(DefaultKeepAliveSpec)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KeepAlive{
		pinger:  p,
		sched:   sched,
		timeout: 10 * time.Second,
		logger:  logger,
		onPing:  onPing,
	}
}

// Start begins pinging. Calling Start twice has no effect.
func (k *KeepAlive) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.runner != nil {
		return
	}
	k.runner = cron.New(
		cron.WithLogger(cronLogger{k.logger}),
		cron.WithChain(cron.Recover(cronLogger{k.logger}), cron.SkipIfStillRunning(cronLogger{k.logger})),
	)
	k.runner.Schedule(k.sched, cron.FuncJob(k.PingNow))
	k.runner.Start()
}

// Stop halts the schedule and waits for a running ping.
func (k *KeepAlive) Stop() {
	k.mu.Lock()
	runner := k.runner
	k.runner = nil
	k.mu.Unlock()
	if runner != nil {
		<-runner.Stop().Done()
	}
}

// PingNow performs one ping immediately.
func (k *KeepAlive) PingNow() {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()
	if err := k.pinger.Ping(ctx); err != nil {
		k.logger.Debug("keep-alive ping failed", "error", err)
		return
	}
	now := time.Now()
	k.mu.Lock()
	k.last = now
	k.mu.Unlock()
	if k.onPing != nil {
		k.onPing(now)
	}
}

// LastPing returns the time of the last successful ping, or zero.
func (k *KeepAlive) LastPing() time.Time {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last
}
