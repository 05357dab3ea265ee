package channel

import (
	"bufio"
	"io"
	"strings"
)

// Message is one Server-Sent Event.
type Message struct {
	// Event is the "event:" field. Empty means the default "message" type.
	Event string
	// Data joins every "data:" line of the event with newlines.
	Data string
	// ID is the last "id:" field seen.
	ID string
}

// Scanner splits an SSE stream into Messages.
// Blank lines terminate an event; comment lines and unknown fields are skipped.
type Scanner struct {
	r      *bufio.Reader
	msg    Message
	err    error
	done   bool
	lastID string
}

// NewScanner reads events from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next reads the next event. It returns false at end of stream or on error.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	var (
		event string
		data  []string
	)
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			s.done = true
			s.err = err
			// A final event without its terminating blank line still counts.
			if line != "" {
				if field, value := splitField(strings.TrimRight(line, "\r\n")); field == "data" {
					data = append(data, value)
				}
			}
			if len(data) > 0 {
				s.emit(event, data)
				return true
			}
			return false
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if len(data) > 0 {
				s.emit(event, data)
				return true
			}
			event = ""
			continue
		}
		if line[0] == ':' {
			continue
		}

		field, value := splitField(line)
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		case "id":
			s.lastID = value
		}
	}
}

func (s *Scanner) emit(event string, data []string) {
	s.msg = Message{Event: event, Data: strings.Join(data, "\n"), ID: s.lastID}
}

func splitField(line string) (string, string) {
	field, value, ok := strings.Cut(line, ":")
	if !ok {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}

// Message returns the event read by the last successful Next.
func (s *Scanner) Message() Message {
	return s.msg
}

// Err returns the read error that ended the stream, or nil for a clean EOF.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
