package channel

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/jdziat/livejobs/pkg/core"
)

// PathEvents is the backend's push channel endpoint.
const PathEvents = "/api/events"

// Dialer opens the event stream. The stream ends when ctx is cancelled.
type Dialer interface {
	Dial(ctx context.Context) (io.ReadCloser, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (io.ReadCloser, error)

func (f DialerFunc) Dial(ctx context.Context) (io.ReadCloser, error) { return f(ctx) }

// HTTPDialer opens the stream with a GET request.
type HTTPDialer struct {
	client *resty.Client
	path   string
}

// NewHTTPDialer creates a dialer for baseURL + PathEvents.
// hc may be nil. It must not carry a client-wide timeout, which would cut
// the long-lived stream.
func NewHTTPDialer(baseURL string, hc *http.Client) *HTTPDialer {
	var client *resty.Client
	if hc != nil {
		client = resty.NewWithClient(hc)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("Accept", "text/event-stream")
	client.SetHeader("Cache-Control", "no-cache")
	return &HTTPDialer{client: client, path: PathEvents}
}

// Dial issues the request and returns the unparsed response body.
func (d *HTTPDialer) Dial(ctx context.Context) (io.ReadCloser, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(d.path)
	if err != nil {
		return nil, &core.TransportError{Path: d.path, Err: err}
	}
	body := resp.RawBody()
	if !resp.IsSuccess() {
		if body != nil {
			_ = body.Close()
		}
		return nil, &core.APIError{
			StatusCode: resp.StatusCode(),
			Path:       d.path,
			Message:    http.StatusText(resp.StatusCode()),
		}
	}
	return body, nil
}
