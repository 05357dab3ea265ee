package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/notify"
)

// Backend paths.
const (
	PathJobs  = "/api/jobs"
	PathStats = "/api/admin/stats"
	PathDLQ   = "/api/admin/dlq"
	PathPing  = "/ping"
)

// errorTTL matches the duration of other error notices.
const errorTTL = notify.DefaultTTL

// Gateway issues requests against one backend.
type Gateway struct {
	client   *resty.Client
	notifier notify.Notifier
	logger   *slog.Logger
	pageSize int
}

// New creates a Gateway for the backend at baseURL.
func New(baseURL string, opts ...Option) *Gateway {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	var client *resty.Client
	if cfg.httpClient != nil {
		client = resty.NewWithClient(cfg.httpClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("Accept", "application/json")
	client.SetHeaders(cfg.headers)
	client.SetLogger(restyLogger{cfg.logger})
	if cfg.timeout > 0 {
		client.SetTimeout(cfg.timeout)
	}

	return &Gateway{
		client:   client,
		notifier: cfg.notifier,
		logger:   cfg.logger,
		pageSize: cfg.pageSize,
	}
}

// BaseURL returns the backend root the gateway talks to.
func (g *Gateway) BaseURL() string {
	return g.client.BaseURL
}

// PageSize returns the size parameter sent with FetchJobs.
func (g *Gateway) PageSize() int {
	return g.pageSize
}

// FetchJobs returns the newest jobs page as one snapshot.
// A response without data.content yields an empty snapshot.
func (g *Gateway) FetchJobs(ctx context.Context) (core.JobSnapshot, error) {
	body, err := g.get(ctx, PathJobs, map[string]string{"size": strconv.Itoa(g.pageSize)})
	if err != nil {
		return nil, err
	}
	jobs, err := g.decodeJobs(gjson.GetBytes(body, "data.content"))
	if err != nil {
		return nil, g.fail(PathJobs, err)
	}
	return jobs, nil
}

// FetchDLQ returns the dead-lettered jobs.
func (g *Gateway) FetchDLQ(ctx context.Context) (core.JobSnapshot, error) {
	body, err := g.get(ctx, PathDLQ, nil)
	if err != nil {
		return nil, err
	}
	jobs, err := g.decodeJobs(gjson.GetBytes(body, "data"))
	if err != nil {
		return nil, g.fail(PathDLQ, err)
	}
	return jobs, nil
}

// FetchStats returns the current queue statistics.
// Fields the backend omitted stay nil.
func (g *Gateway) FetchStats(ctx context.Context) (core.StatsSummary, error) {
	body, err := g.get(ctx, PathStats, nil)
	if err != nil {
		return core.StatsSummary{}, err
	}
	var s core.StatsSummary
	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return s, nil
	}
	if !data.IsObject() {
		return core.StatsSummary{}, g.fail(PathStats, fmt.Errorf("%w: data is not an object", core.ErrDecode))
	}
	if err := json.Unmarshal([]byte(data.Raw), &s); err != nil {
		return core.StatsSummary{}, g.fail(PathStats, fmt.Errorf("%w: %v", core.ErrDecode, err))
	}
	return s, nil
}

// Ping calls the keep-alive endpoint. Failures are returned but never notified.
func (g *Gateway) Ping(ctx context.Context) error {
	resp, err := g.client.R().SetContext(ctx).Get(PathPing)
	if err != nil {
		return &core.TransportError{Path: PathPing, Err: err}
	}
	if !resp.IsSuccess() {
		return apiError(PathPing, resp)
	}
	return nil
}

func (g *Gateway) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	req := g.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, g.fail(path, &core.TransportError{Path: path, Err: err})
	}
	if !resp.IsSuccess() {
		return nil, g.fail(path, apiError(path, resp))
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, g.fail(path, fmt.Errorf("%w: %s returned invalid JSON", core.ErrDecode, path))
	}
	return body, nil
}

// fail surfaces err once and returns it.
func (g *Gateway) fail(path string, err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		g.logger.Warn("request failed", "path", path, "status", apiErr.StatusCode, "error", apiErr.Message)
	} else {
		g.logger.Warn("request failed", "path", path, "error", err)
	}
	g.notifier.Notify(notify.LevelError, err.Error(), errorTTL)
	return err
}

// apiError builds the error for a non-success response. The body's message
// field wins; otherwise the HTTP status text is used.
func apiError(path string, resp *resty.Response) *core.APIError {
	msg := ""
	if body := resp.Body(); gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "message").String()
	}
	if msg == "" {
		msg = statusText(resp)
	}
	return &core.APIError{StatusCode: resp.StatusCode(), Path: path, Message: msg}
}

// statusText prefers the reason phrase the server sent over the
// standard text for the code.
func statusText(resp *resty.Response) string {
	code := strconv.Itoa(resp.StatusCode())
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status(), code)); reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return "HTTP " + code
}

// restyLogger routes resty's internal logging to slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
