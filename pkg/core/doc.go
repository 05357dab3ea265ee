// Package core provides the fundamental types shared by the livejobs packages.
//
// This package contains:
//   - Job, JobSnapshot and FilterCriteria data models
//   - StatsSummary with per-field optionality
//   - ChannelState for the push channel
//   - Event types posted onto a session's inbox
//   - Error types for gateway failures
//
// Most users should import the root package github.com/jdziat/livejobs
// instead of this package directly.
package core
