package anthropic

import (
	"bufio"
	"io"
	"strings"
)

// sseEvent represents a single Server-Sent Event.
type sseEvent struct {
	Event string
	Data  string
}

// sseScanner reads SSE events from an io.Reader one at a time, following
// the bufio.Scanner pattern: Next, then Event, then Err after Next returns
// false.
type sseScanner struct {
	scanner *bufio.Scanner
	event   sseEvent
	err     error
	done    bool
}

func newSSEScanner(r io.Reader) *sseScanner {
	return &sseScanner{scanner: bufio.NewScanner(r)}
}

// Next advances to the next SSE event. A blank line terminates an event;
// comment lines (leading colon) are skipped.
func (s *sseScanner) Next() bool {
	if s.done {
		return false
	}

	var current sseEvent
	hasData := false

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			if hasData || current.Event != "" {
				s.event = current
				return true
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "event:"); ok {
			current.Event = strings.TrimSpace(rest)
		} else if rest, ok := strings.CutPrefix(line, "data:"); ok {
			data := strings.TrimSpace(rest)
			if hasData {
				current.Data += "\n" + data
			} else {
				current.Data = data
				hasData = true
			}
		}
	}

	s.err = s.scanner.Err()
	s.done = true

	// The stream may end without a trailing blank line.
	if hasData || current.Event != "" {
		s.event = current
		return true
	}

	return false
}

func (s *sseScanner) Event() sseEvent {
	return s.event
}

// Err returns the first non-EOF error encountered by the scanner.
func (s *sseScanner) Err() error {
	return s.err
}
