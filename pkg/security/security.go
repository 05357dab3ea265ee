package security

import (
	"strings"
	"unicode/utf8"
)

// Limits applied to server-provided data before it is requested or rendered.
const (
	// DefaultPageSize is the number of jobs requested per snapshot.
	DefaultPageSize = 50

	// MaxPageSize is the hard limit for the snapshot size request parameter.
	MaxPageSize = 1000

	// ShortIDLength is the number of identifier characters shown in notices and tables.
	ShortIDLength = 8

	// MaxResultLength is the maximum rendered length of a job result.
	MaxResultLength = 60

	// MaxMessageLength is the maximum length for a rendered notice message.
	MaxMessageLength = 512
)

// ShortID returns the first ShortIDLength runes of id.
func ShortID(id string) string {
	return Truncate(id, ShortIDLength)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// SanitizeText strips control characters and terminal escape sequences so
// server strings cannot alter the terminal. Newlines and tabs become spaces.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}

	var sanitized strings.Builder
	sanitized.Grow(len(s))

	inEscape := false
	for _, r := range s {
		if inEscape {
			// CSI sequences end with a byte in 0x40..0x7E
			if r >= 0x40 && r <= 0x7e && r != '[' {
				inEscape = false
			}
			continue
		}
		switch {
		case r == 0x1b:
			inEscape = true
		case r == '\n' || r == '\r' || r == '\t':
			sanitized.WriteByte(' ')
		case r >= 32 && r != 127 && !(r >= 0x80 && r < 0xa0):
			sanitized.WriteRune(r)
		}
	}
	return sanitized.String()
}

// SanitizeMessage sanitizes and truncates a notice message.
func SanitizeMessage(msg string) string {
	result := SanitizeText(msg)
	if utf8.RuneCountInString(result) > MaxMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxMessageLength-3]) + "..."
	}
	return result
}

// ClampPageSize ensures the snapshot size is within limits.
// Non-positive values fall back to DefaultPageSize.
func ClampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
