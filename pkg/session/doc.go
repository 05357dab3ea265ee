// Package session implements the synchronization engine of a live client.
//
// A Session owns one push channel, one poll scheduler, the job, DLQ and
// stats stores and a single ordered inbox. Channel events, poll ticks and
// fetch completions are all posted to the inbox and handled by the one
// goroutine running Run, so handlers never run concurrently.
//
// Push events are refresh triggers. Their payload is shown as a notice and
// never merged into a store; while live mode is on each event causes the
// authoritative state to be fetched again. Each fetch carries a sequence
// number and a result older than the applied one is discarded.
//
// Basic usage:
//
//	gw := gateway.New(baseURL, gateway.WithNotifier(hub))
//	s := session.New(gw, channel.NewHTTPDialer(baseURL, nil), session.WithNotifier(hub))
//	go s.Run(ctx)
//	s.WaitReady()
//	view := s.View()
package session
