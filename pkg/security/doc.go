// Package security provides sanitization and limits for the livejobs packages.
//
// This package includes:
//   - Text sanitization to keep server strings from injecting terminal escapes
//   - Identifier and result truncation used by notices and tables
//   - Clamping of the snapshot page size
package security
