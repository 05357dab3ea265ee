package livejobs

import "github.com/jdziat/livejobs/pkg/core"

// Sentinel errors
var (
	ErrTransport      = core.ErrTransport
	ErrDecode         = core.ErrDecode
	ErrSessionClosed  = core.ErrSessionClosed
	ErrInvalidPayload = core.ErrInvalidPayload
	ErrInvalidConfig  = core.ErrInvalidConfig
)
