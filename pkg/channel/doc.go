// Package channel maintains the server push connection.
//
// An EventChannel reads a Server-Sent Events stream from a Dialer, posts
// typed events to a Sink and reconnects after a fixed delay whenever the
// stream fails. It never returns errors to its caller; every failure is a
// state transition:
//
//	DISCONNECTED --Connect--> CONNECTING --connected--> LIVE
//	CONNECTING/LIVE --error--> DISCONNECTED (reconnect after delay)
package channel
