// Package storage persists client-side history with GORM.
//
// This package includes:
//   - GormStorage: statistics samples and the last applied snapshots
//   - Recorder: a session subscriber that writes samples and snapshots
//   - Open and ConfigurePool for a local SQLite database
//
// Nothing here is required for a session to run; storage only lets a
// restarted client show stale-but-present data and lets the CLI print
// statistics history.
package storage
