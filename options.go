package livejobs

import (
	"log/slog"
	"net/http"

	"github.com/jdziat/livejobs/pkg/notify"
	"github.com/jdziat/livejobs/pkg/session"
)

// Option configures a Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithNotifier adds a notifier that receives every notice in addition to
// the client's hub.
func WithNotifier(n notify.Notifier) Option {
	return optionFunc(func(c *clientConfig) {
		c.notifier = n
	})
}

// WithPageSize sets how many jobs are requested per snapshot.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithHTTPClient sets the HTTP client used for requests and the stream.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithSessionOptions passes options through to session.New.
func WithSessionOptions(opts ...session.Option) Option {
	return optionFunc(func(c *clientConfig) {
		c.session = append(c.session, opts...)
	})
}
