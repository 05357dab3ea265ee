// Package livejobs is a live-monitoring client for a job-processing backend.
//
// It keeps a local, filterable copy of the backend's job list and queue
// statistics in sync using a server-sent event stream, periodic polling and
// a keep-alive ping. This is the main package users should import. It
// re-exports the public types of the pkg/ packages.
//
// Basic usage:
//
//	client := livejobs.New("http://localhost:8080")
//	go client.Run(ctx)
//	client.WaitReady()
//
//	for e := range client.Events() {
//	    if _, ok := e.(*livejobs.SnapshotApplied); ok {
//	        fmt.Println(len(client.View()), "jobs")
//	    }
//	}
package livejobs

import (
	"log/slog"
	"net/http"

	"github.com/jdziat/livejobs/pkg/channel"
	"github.com/jdziat/livejobs/pkg/config"
	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/gateway"
	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/session"
)

// Type aliases for the public surface.
type (
	// Job is the client's copy of a backend job.
	Job = core.Job

	// JobSnapshot is the ordered result of one jobs fetch.
	JobSnapshot = core.JobSnapshot

	// JobStatus is the backend state of a job.
	JobStatus = core.JobStatus

	// Priority is the queue a job was submitted to.
	Priority = core.Priority

	// FilterCriteria narrows the job list to the rendered subset.
	FilterCriteria = core.FilterCriteria

	// StatsSummary holds queue statistics.
	StatsSummary = core.StatsSummary

	// ChannelState is the connection state of the push channel.
	ChannelState = core.ChannelState

	// PollTarget selects what a refresh fetches.
	PollTarget = core.PollTarget

	// Event is the interface for all session events.
	Event = core.Event

	// JobEvent is emitted for every parsed lifecycle event.
	JobEvent = core.JobEvent

	// ChannelStateChanged is emitted when the push channel changes state.
	ChannelStateChanged = core.ChannelStateChanged

	// SnapshotApplied is emitted after a job or DLQ snapshot was replaced.
	SnapshotApplied = core.SnapshotApplied

	// StatsApplied is emitted after fetched stats were merged into the display.
	StatsApplied = core.StatsApplied

	// LiveModeChanged is emitted when polling is armed or paused.
	LiveModeChanged = core.LiveModeChanged

	// FilterChanged is emitted when the view criteria change.
	FilterChanged = core.FilterChanged

	// APIError is returned for a non-success HTTP response.
	APIError = core.APIError

	// Session is one client's synchronized view of the backend.
	Session = session.Session

	// Gateway performs the backend requests.
	Gateway = gateway.Gateway

	// Notice is one transient user-facing message.
	Notice = notify.Notice

	// Notifier surfaces messages to the user.
	Notifier = notify.Notifier

	// Config holds the settings loaded by config.Load.
	Config = config.Config
)

// Connection states
const (
	Disconnected = core.ChannelDisconnected
	Connecting   = core.ChannelConnecting
	Live         = core.ChannelLive
)

// Refresh targets
const (
	TargetJobs  = core.TargetJobs
	TargetStats = core.TargetStats
	TargetDLQ   = core.TargetDLQ
)

// Client is a Session wired to an HTTP gateway, an SSE dialer and a notice
// hub. The embedded Session provides Run, View, Events and the rest.
type Client struct {
	*session.Session

	gateway *gateway.Gateway
	hub     *notify.Hub
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	cfg := &clientConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	hub := notify.NewHub()
	notifiers := []notify.Notifier{hub, notify.NewLogNotifier(cfg.logger)}
	if cfg.notifier != nil {
		notifiers = append(notifiers, cfg.notifier)
	}
	n := notify.Multi(notifiers...)

	gwOpts := []gateway.Option{
		gateway.WithNotifier(n),
		gateway.WithLogger(cfg.logger),
	}
	if cfg.pageSize > 0 {
		gwOpts = append(gwOpts, gateway.WithPageSize(cfg.pageSize))
	}
	if cfg.httpClient != nil {
		gwOpts = append(gwOpts, gateway.WithHTTPClient(cfg.httpClient))
	}
	gw := gateway.New(baseURL, gwOpts...)

	sessOpts := append([]session.Option{
		session.WithNotifier(n),
		session.WithLogger(cfg.logger),
	}, cfg.session...)

	return &Client{
		Session: session.New(gw, channel.NewHTTPDialer(gw.BaseURL(), cfg.streamClient()), sessOpts...),
		gateway: gw,
		hub:     hub,
	}
}

// FromConfig creates a Client from loaded settings.
func FromConfig(c *config.Config, opts ...Option) (*Client, error) {
	keepAlive, err := c.KeepAliveSchedule()
	if err != nil {
		return nil, err
	}

	sessOpts := []session.Option{
		session.WithPollInterval(c.PollInterval),
		session.WithReconnectDelay(c.ReconnectDelay),
		session.WithFetchTimeout(c.FetchTimeout),
	}
	if keepAlive != nil {
		sessOpts = append(sessOpts, session.WithKeepAlive(keepAlive))
	} else {
		sessOpts = append(sessOpts, session.WithoutKeepAlive())
	}

	all := append([]Option{WithPageSize(c.PageSize), WithSessionOptions(sessOpts...)}, opts...)
	return New(c.BaseURL, all...), nil
}

// Gateway returns the request gateway for one-shot fetches.
func (c *Client) Gateway() *gateway.Gateway {
	return c.gateway
}

// Hub returns the notice hub. Subscribe with Notices to display them.
func (c *Client) Hub() *notify.Hub {
	return c.hub
}

type clientConfig struct {
	logger     *slog.Logger
	notifier   notify.Notifier
	pageSize   int
	httpClient *http.Client
	session    []session.Option
}

// streamClient returns the HTTP client for the event stream. It shares the
// transport of a custom client but never has a timeout.
func (c *clientConfig) streamClient() *http.Client {
	if c.httpClient == nil {
		return nil
	}
	return &http.Client{Transport: c.httpClient.Transport, Jar: c.httpClient.Jar}
}
