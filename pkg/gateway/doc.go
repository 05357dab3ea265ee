// Package gateway wraps the backend's request/response API.
//
// Every failed call surfaces exactly one notice through the configured
// notify.Notifier and returns the error to the caller. Ping is the
// exception: keep-alive failures are silent.
//
// Response bodies use the backend envelope:
//
//	GET /api/jobs?size=N    {"data": {"content": [Job...]}}
//	GET /api/admin/stats    {"data": StatsSummary}
//	GET /api/admin/dlq      {"data": [Job...]}
package gateway
