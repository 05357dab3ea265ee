package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/livejobs/pkg/core"
)

// EventSource is the subscription surface of a session.
type EventSource interface {
	Events() <-chan core.Event
	Unsubscribe(ch <-chan core.Event)
}

// Recorder subscribes to session events and persists stats samples and the
// latest snapshots.
type Recorder struct {
	source    EventSource
	storage   *GormStorage
	backend   string
	retention time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[core.SnapshotKind]*core.SnapshotApplied

	// ready is closed once the recorder has subscribed to events and is processing.
	ready     chan struct{}
	readyOnce sync.Once
}

// RecorderOption configures the Recorder.
type RecorderOption interface {
	apply(*Recorder)
}

type recorderOptionFunc func(*Recorder)

func (f recorderOptionFunc) apply(r *Recorder) { f(r) }

// WithRetention sets how long samples are kept. Default: 24 hours.
func WithRetention(d time.Duration) RecorderOption {
	return recorderOptionFunc(func(r *Recorder) {
		r.retention = d
	})
}

// WithRecorderLogger sets the logger for write failures.
func WithRecorderLogger(l *slog.Logger) RecorderOption {
	return recorderOptionFunc(func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	})
}

// NewRecorder creates a Recorder writing rows tagged with backend.
func NewRecorder(source EventSource, storage *GormStorage, backend string, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		source:    source,
		storage:   storage,
		backend:   backend,
		retention: 24 * time.Hour,
		logger:    slog.Default(),
		pending:   make(map[core.SnapshotKind]*core.SnapshotApplied),
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt.apply(r)
	}
	return r
}

// WaitReady blocks until the recorder has subscribed to events.
func (r *Recorder) WaitReady() {
	<-r.ready
}

// Start processes events until ctx is cancelled. Snapshots are written at
// most once per flush interval; samples are written as they arrive.
func (r *Recorder) Start(ctx context.Context) {
	r.run(ctx, 5*time.Second)
}

func (r *Recorder) run(ctx context.Context, flushEvery time.Duration) {
	events := r.source.Events()
	defer r.source.Unsubscribe(events)

	r.readyOnce.Do(func() { close(r.ready) })

	flush := time.NewTicker(flushEvery)
	defer flush.Stop()
	prune := time.NewTicker(time.Minute)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			r.Flush(flushCtx)
			cancel()
			return
		case e, ok := <-events:
			if !ok {
				r.Flush(context.Background())
				return
			}
			r.handleEvent(ctx, e)
		case <-flush.C:
			r.Flush(ctx)
		case <-prune.C:
			r.prune(ctx)
		}
	}
}

func (r *Recorder) handleEvent(ctx context.Context, e core.Event) {
	switch ev := e.(type) {
	case *core.StatsApplied:
		if err := r.storage.RecordSample(ctx, r.backend, ev.Timestamp, ev.Fetched); err != nil {
			r.logger.Warn("failed to record stats sample", "error", err)
		}
	case *core.SnapshotApplied:
		r.mu.Lock()
		r.pending[ev.Kind] = ev
		r.mu.Unlock()
	}
}

// Flush writes the newest pending snapshot of each kind.
func (r *Recorder) Flush(ctx context.Context) {
	r.mu.Lock()
	batch := r.pending
	r.pending = make(map[core.SnapshotKind]*core.SnapshotApplied)
	r.mu.Unlock()

	for kind, ev := range batch {
		if err := r.storage.SaveSnapshot(ctx, r.backend, kind, ev.Seq, ev.Jobs); err != nil {
			r.logger.Warn("failed to save snapshot", "kind", kind, "error", err)
		}
	}
}

func (r *Recorder) prune(ctx context.Context) {
	if r.retention > 0 {
		n, err := r.storage.PruneSamples(ctx, time.Now().Add(-r.retention))
		if err != nil {
			r.logger.Warn("failed to prune stats samples", "error", err)
			return
		}
		if n > 0 {
			r.logger.Debug("pruned stats samples", "count", n)
		}
	}
}
