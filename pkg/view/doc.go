// Package view turns stored jobs and stats into display strings.
//
// Formatting is shared by the dashboard and the one-shot CLI commands so
// both render the same values. Every server-provided string passes through
// security.SanitizeText before it is returned.
package view
