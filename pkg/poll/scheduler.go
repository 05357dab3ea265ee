package poll

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/schedule"
)

// Sink receives PollTick and LiveModeChanged events. It may block.
type Sink func(core.Event)

// Scheduler owns the two refresh timers and the live mode flag.
type Scheduler struct {
	sink          Sink
	logger        *slog.Logger
	indicator     func(on bool)
	jobsInterval  time.Duration
	statsInterval time.Duration

	mu     sync.Mutex
	runner *cron.Cron
	live   bool
	gen    uint64
}

// New creates a paused Scheduler. A nil sink discards ticks.
func New(sink Sink, opts ...Option) *Scheduler {
	cfg := config{
		jobsInterval:  DefaultInterval,
		statsInterval: DefaultInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if sink == nil {
		sink = func(core.Event) {}
	}
	return &Scheduler{
		sink:          sink,
		logger:        cfg.logger,
		indicator:     cfg.indicator,
		jobsInterval:  cfg.jobsInterval,
		statsInterval: cfg.statsInterval,
	}
}

// SetLiveMode arms both timers when on and cancels them when off.
// Turning on while on restarts the timers. In-flight work is not affected.
func (s *Scheduler) SetLiveMode(on bool) {
	s.mu.Lock()
	s.stopLocked()
	s.gen++
	s.live = on
	if on {
		s.runner = s.arm(s.gen)
	}
	s.mu.Unlock()

	if s.indicator != nil {
		s.indicator(on)
	}
	s.sink(&core.LiveModeChanged{On: on, Timestamp: time.Now()})
}

// LiveMode reports whether the timers are armed.
func (s *Scheduler) LiveMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Armed reports whether a tick of generation gen may still be acted on.
func (s *Scheduler) Armed(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live && gen == s.gen
}

// Generation returns the current arming generation.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Stop cancels the timers without changing the reported live mode.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopLocked()
	s.gen++
	s.mu.Unlock()
}

func (s *Scheduler) arm(gen uint64) *cron.Cron {
	runner := cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.Recover(cronLogger{s.logger})),
	)
	runner.Schedule(schedule.Every(s.jobsInterval), s.tickJob(core.TargetJobs, gen))
	runner.Schedule(schedule.Every(s.statsInterval), s.tickJob(core.TargetStats, gen))
	runner.Start()
	return runner
}

func (s *Scheduler) tickJob(target core.PollTarget, gen uint64) cron.Job {
	return cron.FuncJob(func() {
		if !s.Armed(gen) {
			return
		}
		s.sink(&core.PollTick{Target: target, Generation: gen, Timestamp: time.Now()})
	})
}

// stopLocked halts the runner. Running jobs are not waited for because they
// may be blocked handing a tick to the consumer that called SetLiveMode.
func (s *Scheduler) stopLocked() {
	if s.runner != nil {
		s.runner.Stop()
		s.runner = nil
	}
}
