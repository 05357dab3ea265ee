package channel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/livejobs/pkg/core"
)

// errStreamEnded is reported when the server closes the stream cleanly.
var errStreamEnded = errors.New("channel: stream ended")

// Sink receives the events an EventChannel produces.
// It is called from the channel's goroutines and may block.
type Sink func(core.Event)

// EventChannel manages one push connection with automatic reconnect.
type EventChannel struct {
	dialer Dialer
	sink   Sink
	logger *slog.Logger
	delay  time.Duration

	mu        sync.Mutex
	state     core.ChannelState
	conn      uint64 // bumped for every connection and on teardown
	cancel    context.CancelFunc
	reconnect *time.Timer
	retry     uint64 // identifies the pending reconnect timer
	closed    bool
}

// New creates a disconnected EventChannel. A nil sink discards events.
func New(dialer Dialer, sink Sink, opts ...Option) *EventChannel {
	cfg := config{
		reconnectDelay: DefaultReconnectDelay,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if sink == nil {
		sink = func(core.Event) {}
	}
	return &EventChannel{
		dialer: dialer,
		sink:   sink,
		logger: cfg.logger,
		delay:  cfg.reconnectDelay,
	}
}

// State returns the current connection state.
func (c *EventChannel) State() core.ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReconnectPending reports whether a reconnect attempt is scheduled.
func (c *EventChannel) ReconnectPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnect != nil
}

// Connect opens the stream. It is a no-op while connecting, while live,
// while a reconnect is scheduled and after Close.
func (c *EventChannel) Connect() {
	c.mu.Lock()
	if c.closed || c.state != core.ChannelDisconnected || c.reconnect != nil {
		c.mu.Unlock()
		return
	}
	c.conn++
	conn := c.conn
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state = core.ChannelConnecting
	c.mu.Unlock()

	c.logger.Debug("push channel connecting", "conn", conn)
	c.emitState(core.ChannelConnecting)
	go c.run(ctx, conn)
}

// Close tears down the connection and cancels any pending reconnect.
func (c *EventChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.conn++
	c.stopReconnectLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	prev := c.state
	c.state = core.ChannelDisconnected
	c.mu.Unlock()

	if prev != core.ChannelDisconnected {
		c.emitState(core.ChannelDisconnected)
	}
}

func (c *EventChannel) run(ctx context.Context, conn uint64) {
	body, err := c.dialer.Dial(ctx)
	if err != nil {
		c.fail(conn, err)
		return
	}
	defer body.Close()
	// Unblock a pending read when the connection is torn down.
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	sc := NewScanner(body)
	for sc.Next() {
		if !c.current(conn) {
			return
		}
		c.dispatch(conn, sc.Message())
	}
	err = sc.Err()
	if err == nil {
		err = errStreamEnded
	}
	c.fail(conn, err)
}

func (c *EventChannel) dispatch(conn uint64, msg Message) {
	typ := core.EventType(msg.Event)
	switch {
	case typ == core.EventConnected:
		c.markLive(conn)
	case typ.IsJobLifecycle():
		payload, err := ParsePayload(msg.Data)
		if err != nil {
			c.logger.Debug("dropping malformed push event", "event", msg.Event, "error", err)
			return
		}
		c.sink(&core.JobEvent{Type: typ, Payload: payload, Timestamp: time.Now()})
	default:
		c.logger.Debug("ignoring push event", "event", msg.Event)
	}
}

func (c *EventChannel) markLive(conn uint64) {
	c.mu.Lock()
	if c.closed || conn != c.conn {
		c.mu.Unlock()
		return
	}
	c.stopReconnectLocked()
	changed := c.state != core.ChannelLive
	c.state = core.ChannelLive
	c.mu.Unlock()

	if changed {
		c.logger.Info("push channel live", "conn", conn)
		c.emitState(core.ChannelLive)
	}
}

// fail discards connection conn and schedules exactly one reconnect.
func (c *EventChannel) fail(conn uint64, err error) {
	c.mu.Lock()
	if c.closed || conn != c.conn {
		c.mu.Unlock()
		return
	}
	c.conn++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = core.ChannelDisconnected
	c.stopReconnectLocked()
	c.retry++
	retry := c.retry
	c.reconnect = time.AfterFunc(c.delay, func() { c.fireReconnect(retry) })
	c.mu.Unlock()

	c.logger.Warn("push channel failed", "error", err, "reconnect_in", c.delay)
	c.emitState(core.ChannelDisconnected)
}

func (c *EventChannel) fireReconnect(retry uint64) {
	c.mu.Lock()
	if c.closed || c.retry != retry || c.reconnect == nil {
		c.mu.Unlock()
		return
	}
	c.reconnect = nil
	c.mu.Unlock()

	c.Connect()
}

func (c *EventChannel) stopReconnectLocked() {
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
}

func (c *EventChannel) current(conn uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && conn == c.conn
}

func (c *EventChannel) emitState(s core.ChannelState) {
	c.sink(&core.ChannelStateChanged{State: s, Timestamp: time.Now()})
}
