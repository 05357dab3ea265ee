package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/livejobs/pkg/channel"
	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/poll"
	"github.com/jdziat/livejobs/pkg/store"
)

// ErrAlreadyRunning is returned by Run when the session loop is already active.
var ErrAlreadyRunning = errors.New("livejobs: session already running")

// Fetcher is the request/response surface a session needs.
// gateway.Gateway satisfies it.
type Fetcher interface {
	FetchJobs(ctx context.Context) (core.JobSnapshot, error)
	FetchStats(ctx context.Context) (core.StatsSummary, error)
	FetchDLQ(ctx context.Context) (core.JobSnapshot, error)
	Ping(ctx context.Context) error
}

// Session is one client's synchronized view of the backend.
type Session struct {
	id       string
	fetcher  Fetcher
	notifier notify.Notifier
	logger   *slog.Logger
	cfg      config

	channel   *channel.EventChannel
	poller    *poll.Scheduler
	keepAlive *poll.KeepAlive

	jobs  *store.JobStore
	dlq   *store.JobStore
	stats *store.StatsStore

	inbox chan core.Event
	done  chan struct{}
	seq   atomic.Uint64

	connState atomic.Int32
	lastPing  atomic.Pointer[time.Time]

	// fetchCtx outlives live mode toggles so in-flight fetches complete.
	fetchCtx    context.Context
	fetchCancel context.CancelFunc
	fetches     sync.WaitGroup

	mu   sync.RWMutex
	subs []chan core.Event

	running   atomic.Bool
	exited    chan struct{}
	closeOnce sync.Once

	// ready is closed once Run has issued the initial loads and connected.
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a session. Nothing happens until Run is called.
func New(fetcher Fetcher, dialer channel.Dialer, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	fetchCtx, fetchCancel := context.WithCancel(context.Background())
	s := &Session{
		id:          uuid.New().String(),
		fetcher:     fetcher,
		notifier:    cfg.notifier,
		cfg:         cfg,
		jobs:        store.NewJobStore(),
		dlq:         store.NewJobStore(),
		stats:       store.NewStatsStore(),
		inbox:       make(chan core.Event, cfg.inboxSize),
		done:        make(chan struct{}),
		exited:      make(chan struct{}),
		ready:       make(chan struct{}),
		fetchCtx:    fetchCtx,
		fetchCancel: fetchCancel,
	}
	s.logger = cfg.logger.With("session", s.id)
	s.channel = channel.New(dialer, s.post,
		channel.WithReconnectDelay(cfg.reconnectDelay),
		channel.WithLogger(s.logger),
	)
	s.poller = poll.New(s.post,
		poll.WithInterval(cfg.pollInterval),
		poll.WithLogger(s.logger),
	)
	if !cfg.keepAliveOff {
		s.keepAlive = poll.NewKeepAlive(fetcher, cfg.keepAlive, s.logger, func(at time.Time) {
			s.post(&core.PingCompleted{Timestamp: at})
		})
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Run starts the session and processes its inbox until ctx is cancelled or
// Close is called. Startup loads jobs, stats and the DLQ, turns live mode on,
// connects the push channel and starts the keep-alive ping.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.exited)

	select {
	case <-s.done:
		return core.ErrSessionClosed
	default:
	}

	s.logger.Info("session starting")
	s.refresh(nil)
	if s.cfg.startLive {
		s.poller.SetLiveMode(true)
	}
	s.channel.Connect()
	if s.keepAlive != nil {
		s.keepAlive.Start()
		go s.keepAlive.PingNow()
	}
	s.readyOnce.Do(func() { close(s.ready) })

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-s.done:
			s.shutdown()
			return nil
		case e := <-s.inbox:
			s.handle(e)
		}
	}
}

// WaitReady blocks until Run has completed startup.
func (s *Session) WaitReady() {
	<-s.ready
}

// Close stops the session and waits for Run to return.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	if s.running.Load() {
		<-s.exited
	} else {
		s.shutdown()
	}
	return nil
}

func (s *Session) shutdown() {
	s.closeOnce.Do(func() { close(s.done) })
	s.fetchCancel()
	s.channel.Close()
	s.poller.Stop()
	if s.keepAlive != nil {
		s.keepAlive.Stop()
	}
	s.fetches.Wait()
	s.logger.Info("session stopped")
}

// post enqueues e for the session loop. It is the sink for the channel and
// scheduler and never blocks past Close.
func (s *Session) post(e core.Event) {
	select {
	case s.inbox <- e:
	case <-s.done:
	}
}

func (s *Session) handle(e core.Event) {
	switch ev := e.(type) {
	case *core.ChannelStateChanged:
		// Events may arrive out of order; the channel's current state is authoritative.
		state := s.channel.State()
		if core.ChannelState(s.connState.Swap(int32(state))) != state {
			s.Emit(&core.ChannelStateChanged{State: state, Timestamp: ev.Timestamp})
		}
	case *core.JobEvent:
		s.handleJobEvent(ev)
	case *core.PollTick:
		if !s.poller.Armed(ev.Generation) {
			return
		}
		targets := []core.PollTarget{ev.Target}
		if ev.Target == core.TargetStats && s.cfg.trackDLQ {
			targets = append(targets, core.TargetDLQ)
		}
		s.refresh(targets)
	case *core.RefreshRequested:
		s.refresh(ev.Targets)
	case *core.FetchCompleted:
		s.apply(ev)
	case *core.LiveModeChanged:
		s.Emit(ev)
	case *core.PingCompleted:
		at := ev.Timestamp
		s.lastPing.Store(&at)
		s.Emit(ev)
	}
}

func (s *Session) handleJobEvent(ev *core.JobEvent) {
	level, msg, ttl := describe(ev)
	s.notifier.Notify(level, msg, ttl)
	s.Emit(ev)

	if !s.poller.LiveMode() {
		return
	}
	targets := []core.PollTarget{core.TargetJobs, core.TargetStats}
	if ev.Type == core.EventJobFailed && s.cfg.trackDLQ {
		targets = append(targets, core.TargetDLQ)
	}
	s.refresh(targets)
}

// refresh issues one fetch per target. Nil targets means all of them.
func (s *Session) refresh(targets []core.PollTarget) {
	if targets == nil {
		targets = []core.PollTarget{core.TargetJobs, core.TargetStats}
		if s.cfg.trackDLQ {
			targets = append(targets, core.TargetDLQ)
		}
	}
	for _, t := range targets {
		s.fetch(t)
	}
}

// fetch runs one request off the loop and posts the result back.
func (s *Session) fetch(target core.PollTarget) {
	seq := s.seq.Add(1)
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		ctx, cancel := context.WithTimeout(s.fetchCtx, s.cfg.fetchTimeout)
		defer cancel()

		res := &core.FetchCompleted{Target: target, Seq: seq}
		switch target {
		case core.TargetJobs:
			res.Jobs, res.Err = s.fetcher.FetchJobs(ctx)
		case core.TargetDLQ:
			res.Jobs, res.Err = s.fetcher.FetchDLQ(ctx)
		case core.TargetStats:
			res.Stats, res.Err = s.fetcher.FetchStats(ctx)
		}
		res.Timestamp = time.Now()
		s.post(res)
	}()
}

func (s *Session) apply(ev *core.FetchCompleted) {
	if ev.Err != nil {
		// The fetcher already surfaced the failure; keep showing prior data.
		s.logger.Debug("fetch failed, keeping previous data", "target", ev.Target, "seq", ev.Seq, "error", ev.Err)
		return
	}
	switch ev.Target {
	case core.TargetJobs:
		s.applySnapshot(s.jobs, core.SnapshotJobs, ev)
	case core.TargetDLQ:
		s.applySnapshot(s.dlq, core.SnapshotDLQ, ev)
	case core.TargetStats:
		displayed, ok := s.stats.Apply(ev.Seq, ev.Stats)
		if !ok {
			s.logger.Debug("discarding stale stats", "seq", ev.Seq)
			return
		}
		s.Emit(&core.StatsApplied{Seq: ev.Seq, Fetched: ev.Stats, Displayed: displayed, Timestamp: ev.Timestamp})
	}
}

func (s *Session) applySnapshot(js *store.JobStore, kind core.SnapshotKind, ev *core.FetchCompleted) {
	if !js.ReplaceSnapshot(ev.Seq, ev.Jobs) {
		s.logger.Debug("discarding stale snapshot", "kind", kind, "seq", ev.Seq)
		return
	}
	s.Emit(&core.SnapshotApplied{Kind: kind, Seq: ev.Seq, Jobs: js.Jobs(), Timestamp: ev.Timestamp})
}
