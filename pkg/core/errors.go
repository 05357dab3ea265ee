package core

import (
	"errors"
	"fmt"
)

var (
	ErrTransport      = errors.New("livejobs: transport failure")
	ErrDecode         = errors.New("livejobs: malformed response body")
	ErrSessionClosed  = errors.New("livejobs: session closed")
	ErrInvalidPayload = errors.New("livejobs: invalid event payload")
	ErrInvalidConfig  = errors.New("livejobs: invalid configuration")
)

// APIError is returned for a non-success HTTP response.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Detail includes the request path and status for logs.
func (e *APIError) Detail() string {
	return fmt.Sprintf("%s: %d %s", e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports a 404 response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError reports a 5xx response.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// TransportError wraps a network-level failure.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
