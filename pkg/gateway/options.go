package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/security"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// Option configures a Gateway.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	notifier   notify.Notifier
	logger     *slog.Logger
	pageSize   int
	timeout    time.Duration
	httpClient *http.Client
	headers    map[string]string
}

func defaultConfig() config {
	return config{
		notifier: notify.Discard,
		logger:   slog.Default(),
		pageSize: security.DefaultPageSize,
		timeout:  DefaultTimeout,
		headers:  map[string]string{},
	}
}

// WithNotifier sets where request failures are surfaced.
func WithNotifier(n notify.Notifier) Option {
	return optionFunc(func(c *config) {
		if n != nil {
			c.notifier = n
		}
	})
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithPageSize sets the size parameter of the jobs request.
// Values are clamped to [1, security.MaxPageSize].
func WithPageSize(n int) Option {
	return optionFunc(func(c *config) {
		c.pageSize = security.ClampPageSize(n)
	})
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) {
		c.timeout = d
	})
}

// WithHTTPClient uses hc as the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *config) {
		c.httpClient = hc
	})
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return optionFunc(func(c *config) {
		c.headers[key] = value
	})
}
