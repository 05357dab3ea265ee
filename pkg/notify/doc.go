// Package notify presents short-lived, dismissible status messages.
//
// A Notifier receives messages from the gateway and the session. Hub fans
// notices out to subscribers, Board keeps the set of visible notices for a
// renderer, and LogNotifier mirrors notices into a slog.Logger.
package notify
