package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/livejobs/pkg/channel"
	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
)

// fakeFetcher counts calls and delegates to optional hooks.
type fakeFetcher struct {
	mu         sync.Mutex
	jobsCalls  int
	statsCalls int
	dlqCalls   int
	pings      int

	jobsFn  func(call int) (core.JobSnapshot, error)
	statsFn func(call int) (core.StatsSummary, error)
	dlqFn   func(call int) (core.JobSnapshot, error)
}

func (f *fakeFetcher) FetchJobs(ctx context.Context) (core.JobSnapshot, error) {
	f.mu.Lock()
	f.jobsCalls++
	n, fn := f.jobsCalls, f.jobsFn
	f.mu.Unlock()
	if fn != nil {
		return fn(n)
	}
	return core.JobSnapshot{{ID: fmt.Sprintf("job-%d", n), JobType: "echo", Status: core.StatusRunning}}, nil
}

func (f *fakeFetcher) FetchStats(ctx context.Context) (core.StatsSummary, error) {
	f.mu.Lock()
	f.statsCalls++
	n, fn := f.statsCalls, f.statsFn
	f.mu.Unlock()
	if fn != nil {
		return fn(n)
	}
	return core.StatsSummary{TotalQueued: core.Int64(int64(n))}, nil
}

func (f *fakeFetcher) FetchDLQ(ctx context.Context) (core.JobSnapshot, error) {
	f.mu.Lock()
	f.dlqCalls++
	n, fn := f.dlqCalls, f.dlqFn
	f.mu.Unlock()
	if fn != nil {
		return fn(n)
	}
	return core.JobSnapshot{}, nil
}

func (f *fakeFetcher) Ping(ctx context.Context) error {
	f.mu.Lock()
	f.pings++
	f.mu.Unlock()
	return nil
}

func (f *fakeFetcher) counts() (jobs, stats, dlq int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobsCalls, f.statsCalls, f.dlqCalls
}

func (f *fakeFetcher) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

// pipeDialer returns in-memory streams the test writes events to.
type pipeDialer struct {
	streams chan *io.PipeWriter
}

func newPipeDialer() *pipeDialer {
	return &pipeDialer{streams: make(chan *io.PipeWriter, 8)}
}

func (d *pipeDialer) Dial(ctx context.Context) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	d.streams <- pw
	return pr, nil
}

func (d *pipeDialer) next(t *testing.T) *io.PipeWriter {
	t.Helper()
	select {
	case w := <-d.streams:
		return w
	case <-time.After(time.Second):
		t.Fatal("session did not dial")
		return nil
	}
}

func send(t *testing.T, w *io.PipeWriter, event, data string) {
	t.Helper()
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	require.NoError(t, err)
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []string
	levels  []notify.Level
}

func (r *noticeRecorder) Notify(level notify.Level, msg string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
	r.levels = append(r.levels, level)
}

func (r *noticeRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

func startSession(t *testing.T, f Fetcher, d channel.Dialer, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithoutKeepAlive(), WithPollInterval(time.Hour)}, opts...)
	s := New(f, d, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	s.WaitReady()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
			t.Error("Run did not return")
		}
	})
	return s
}

func TestSession_StartupLoadsAndConnects(t *testing.T) {
	f := &fakeFetcher{}
	d := newPipeDialer()
	s := startSession(t, f, d)

	_ = d.next(t)
	require.Eventually(t, func() bool {
		return len(s.View()) == 1 && s.Stats().TotalQueued != nil
	}, time.Second, 5*time.Millisecond)

	jobs, stats, dlq := f.counts()
	assert.Equal(t, 1, jobs)
	assert.Equal(t, 1, stats)
	assert.Equal(t, 1, dlq)
	assert.True(t, s.LiveMode())
	assert.Equal(t, core.ChannelConnecting, s.ConnectionState())
	assert.NotEmpty(t, s.ID())
}

func TestSession_ConnectionIndicatorIndependentOfLiveMode(t *testing.T) {
	d := newPipeDialer()
	s := startSession(t, &fakeFetcher{}, d, WithStartLive(false))
	events := s.Events()
	defer s.Unsubscribe(events)

	w := d.next(t)
	send(t, w, "connected", `{"connected":true}`)

	require.Eventually(t, func() bool { return s.ConnectionState() == core.ChannelLive }, time.Second, 5*time.Millisecond)
	assert.False(t, s.LiveMode())

	timeout := time.After(time.Second)
	for {
		select {
		case e := <-events:
			if sc, ok := e.(*core.ChannelStateChanged); ok && sc.State == core.ChannelLive {
				return
			}
		case <-timeout:
			t.Fatal("no live state change emitted")
		}
	}
}

func TestSession_RetryEventNotifiesAndRefreshes(t *testing.T) {
	f := &fakeFetcher{}
	d := newPipeDialer()
	rec := &noticeRecorder{}
	s := startSession(t, f, d, WithNotifier(rec))

	w := d.next(t)
	require.Eventually(t, func() bool { j, st, _ := f.counts(); return j == 1 && st == 1 }, time.Second, 5*time.Millisecond)

	send(t, w, "JOB_RETRY", `{"id":"abc12345-aaaa","jobType":"http","status":"QUEUED","attempt":2,"maxRetries":5,"retryInMs":1500}`)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	msg := rec.all()[0]
	assert.Contains(t, msg, "2/5")
	assert.Contains(t, msg, "1.5s")

	require.Eventually(t, func() bool {
		j, st, _ := f.counts()
		return j == 2 && st == 2
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(s.View()) == 1 && s.View()[0].ID == "job-2" }, time.Second, 5*time.Millisecond)
	_, _, dlq := f.counts()
	assert.Equal(t, 1, dlq, "only JOB_FAILED refreshes the DLQ")
}

func TestSession_FailedEventRefreshesDLQ(t *testing.T) {
	f := &fakeFetcher{}
	d := newPipeDialer()
	startSession(t, f, d)

	w := d.next(t)
	send(t, w, "JOB_FAILED", `{"id":"dead0000","jobType":"http","status":"DLQ","attempts":3}`)

	require.Eventually(t, func() bool { _, _, dlq := f.counts(); return dlq == 2 }, time.Second, 5*time.Millisecond)
}

func TestSession_PausedShowsNoticeWithoutRefresh(t *testing.T) {
	f := &fakeFetcher{}
	d := newPipeDialer()
	rec := &noticeRecorder{}
	s := startSession(t, f, d, WithNotifier(rec))

	w := d.next(t)
	require.Eventually(t, func() bool { j, _, _ := f.counts(); return j == 1 }, time.Second, 5*time.Millisecond)

	s.SetLiveMode(false)
	send(t, w, "JOB_CREATED", `{"id":"new00001","jobType":"echo"}`)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Job created: new00001… (echo)", rec.all()[0])

	time.Sleep(50 * time.Millisecond)
	j, st, _ := f.counts()
	assert.Equal(t, 1, j)
	assert.Equal(t, 1, st)
}

func TestSession_MalformedEventIsDropped(t *testing.T) {
	f := &fakeFetcher{}
	d := newPipeDialer()
	rec := &noticeRecorder{}
	s := startSession(t, f, d, WithNotifier(rec))

	w := d.next(t)
	send(t, w, "connected", `{"connected":true}`)
	send(t, w, "JOB_STARTED", `{"id":`)
	send(t, w, "JOB_STARTED", `{"id":"ok000001","jobType":"echo"}`)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, strings.HasPrefix(rec.all()[0], "Running: ok000001"))
	assert.Equal(t, core.ChannelLive, s.ConnectionState())
}

func TestSession_EventWithoutIDStillNotifiesAndRefreshes(t *testing.T) {
	f := &fakeFetcher{}
	d := newPipeDialer()
	rec := &noticeRecorder{}
	startSession(t, f, d, WithNotifier(rec))
	require.Eventually(t, func() bool { j, _, _ := f.counts(); return j == 1 }, time.Second, 5*time.Millisecond)

	w := d.next(t)
	send(t, w, "connected", `{"connected":true}`)
	send(t, w, "JOB_CREATED", `{"jobType":"email"}`)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Job created: … (email)", rec.all()[0])
	require.Eventually(t, func() bool { j, _, _ := f.counts(); return j == 2 }, time.Second, 5*time.Millisecond)
}

func TestSession_InFlightFetchAppliesAfterPause(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeFetcher{jobsFn: func(call int) (core.JobSnapshot, error) {
		if call == 2 {
			<-gate
			return core.JobSnapshot{{ID: "late", JobType: "echo"}}, nil
		}
		return core.JobSnapshot{{ID: "first", JobType: "echo"}}, nil
	}}
	s := startSession(t, f, newPipeDialer())
	require.Eventually(t, func() bool { return len(s.View()) == 1 }, time.Second, 5*time.Millisecond)

	s.Refresh(core.TargetJobs)
	require.Eventually(t, func() bool { j, _, _ := f.counts(); return j == 2 }, time.Second, 5*time.Millisecond)

	s.SetLiveMode(false)
	close(gate)

	require.Eventually(t, func() bool {
		v := s.View()
		return len(v) == 1 && v[0].ID == "late"
	}, time.Second, 5*time.Millisecond)
}

func TestSession_FailedFetchKeepsPreviousData(t *testing.T) {
	f := &fakeFetcher{
		jobsFn: func(call int) (core.JobSnapshot, error) {
			if call > 1 {
				return nil, errors.New("503")
			}
			return core.JobSnapshot{{ID: "kept", JobType: "echo"}}, nil
		},
		statsFn: func(call int) (core.StatsSummary, error) {
			if call > 1 {
				return core.StatsSummary{}, errors.New("503")
			}
			return core.StatsSummary{TotalDlq: core.Int64(7)}, nil
		},
	}
	s := startSession(t, f, newPipeDialer())
	require.Eventually(t, func() bool { return len(s.View()) == 1 && s.Stats().TotalDlq != nil }, time.Second, 5*time.Millisecond)

	s.Refresh()
	require.Eventually(t, func() bool { j, st, _ := f.counts(); return j == 2 && st == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	require.Len(t, s.View(), 1)
	assert.Equal(t, "kept", s.View()[0].ID)
	assert.Equal(t, int64(7), *s.Stats().TotalDlq)
}

func TestSession_OlderFetchCompletingLaterIsDiscarded(t *testing.T) {
	slow := make(chan struct{})
	f := &fakeFetcher{jobsFn: func(call int) (core.JobSnapshot, error) {
		switch call {
		case 2:
			<-slow
			return core.JobSnapshot{{ID: "older"}}, nil
		case 3:
			return core.JobSnapshot{{ID: "newer"}}, nil
		}
		return core.JobSnapshot{{ID: "initial"}}, nil
	}}
	s := startSession(t, f, newPipeDialer())
	require.Eventually(t, func() bool { return len(s.View()) == 1 }, time.Second, 5*time.Millisecond)

	s.Refresh(core.TargetJobs)
	require.Eventually(t, func() bool { j, _, _ := f.counts(); return j == 2 }, time.Second, 5*time.Millisecond)
	s.Refresh(core.TargetJobs)
	require.Eventually(t, func() bool { return s.View()[0].ID == "newer" }, time.Second, 5*time.Millisecond)

	close(slow)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "newer", s.View()[0].ID)
}

func TestSession_StatsWithoutLatencyKeepDisplay(t *testing.T) {
	f := &fakeFetcher{statsFn: func(call int) (core.StatsSummary, error) {
		if call == 1 {
			return core.StatsSummary{AvgLatencyMs: core.Float64(420), SuccessRate: core.Float64(80)}, nil
		}
		return core.StatsSummary{SuccessRate: core.Float64(99)}, nil
	}}
	s := startSession(t, f, newPipeDialer())
	require.Eventually(t, func() bool { return s.Stats().AvgLatencyMs != nil }, time.Second, 5*time.Millisecond)

	s.Refresh(core.TargetStats)
	require.Eventually(t, func() bool {
		sr := s.Stats().SuccessRate
		return sr != nil && *sr == 99
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 420.0, *s.Stats().AvgLatencyMs)
}

func TestSession_PollTicksStopWhenPaused(t *testing.T) {
	f := &fakeFetcher{}
	s := startSession(t, f, newPipeDialer(), WithPollInterval(20*time.Millisecond), WithDLQ(false))

	require.Eventually(t, func() bool { j, st, _ := f.counts(); return j >= 3 && st >= 3 }, 2*time.Second, 5*time.Millisecond)
	_, _, dlq := f.counts()
	assert.Equal(t, 0, dlq)

	s.SetLiveMode(false)
	time.Sleep(30 * time.Millisecond)
	j1, st1, _ := f.counts()
	time.Sleep(100 * time.Millisecond)
	j2, st2, _ := f.counts()
	assert.Equal(t, j1, j2)
	assert.Equal(t, st1, st2)

	assert.True(t, s.ToggleLive())
	require.Eventually(t, func() bool { j, _, _ := f.counts(); return j > j2 }, 2*time.Second, 5*time.Millisecond)
}

func TestSession_FilterAndEvents(t *testing.T) {
	f := &fakeFetcher{jobsFn: func(int) (core.JobSnapshot, error) {
		return core.JobSnapshot{
			{ID: "abc123", JobType: "echo", Status: core.StatusRunning, Priority: core.PriorityHigh},
			{ID: "def456", JobType: "http", Status: core.StatusFailed, Priority: core.PriorityLow},
		}, nil
	}}
	s := startSession(t, f, newPipeDialer())
	events := s.Events()
	defer s.Unsubscribe(events)
	require.Eventually(t, func() bool { return len(s.Jobs()) == 2 }, time.Second, 5*time.Millisecond)

	s.SetFilter(core.FilterCriteria{Status: "running"})
	require.Len(t, s.View(), 1)
	assert.Equal(t, "abc123", s.View()[0].ID)
	assert.Equal(t, "running", s.Filter().Status)

	s.SetFilter(core.FilterCriteria{SearchText: "xyz"})
	assert.Empty(t, s.View())

	deadline := time.After(time.Second)
	for {
		select {
		case e := <-events:
			if fc, ok := e.(*core.FilterChanged); ok {
				assert.Equal(t, "running", fc.Criteria.Status)
				return
			}
		case <-deadline:
			t.Fatal("no filter event")
		}
	}
}

func TestSession_KeepAlivePingsAtStartup(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f, newPipeDialer(), WithPollInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()
	s.WaitReady()

	require.Eventually(t, func() bool { return f.pingCount() >= 1 && !s.LastPing().IsZero() }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
}

func TestSession_SeedIsSupersededByFetch(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f, newPipeDialer(), WithoutKeepAlive())
	assert.True(t, s.Seed(core.JobSnapshot{{ID: "cached"}}))
	assert.Equal(t, "cached", s.View()[0].ID)

	go func() { _ = s.Run(context.Background()) }()
	s.WaitReady()
	require.Eventually(t, func() bool { return s.View()[0].ID == "job-1" }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
}

func TestSession_SeedDLQIsSupersededByFetch(t *testing.T) {
	f := &fakeFetcher{dlqFn: func(int) (core.JobSnapshot, error) {
		return core.JobSnapshot{{ID: "dead-live", Status: core.StatusDeadLettered}}, nil
	}}
	s := New(f, newPipeDialer(), WithoutKeepAlive())
	assert.True(t, s.SeedDLQ(core.JobSnapshot{{ID: "dead-cached"}}))
	assert.Equal(t, "dead-cached", s.DLQ()[0].ID)
	assert.Empty(t, s.View())

	go func() { _ = s.Run(context.Background()) }()
	s.WaitReady()
	require.Eventually(t, func() bool { return s.DLQ()[0].ID == "dead-live" }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
}

func TestSession_RunTwice(t *testing.T) {
	s := startSession(t, &fakeFetcher{}, newPipeDialer())
	assert.ErrorIs(t, s.Run(context.Background()), ErrAlreadyRunning)
}

func TestSession_CloseWithoutRun(t *testing.T) {
	s := New(&fakeFetcher{}, newPipeDialer(), WithoutKeepAlive())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Run(context.Background()), core.ErrSessionClosed)
}
