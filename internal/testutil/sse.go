package testutil

import (
	"bufio"
	"strings"
	"testing"
)

// SSEEvent is one named event decoded from a text/event-stream body.
type SSEEvent struct {
	Type string
	Data string
}

// ParseSSEEvents decodes the body of a streaming chat response into its
// events. The server splits a payload across several "data:" lines when
// it contains newlines; the parser joins them back with "\n". A blank
// line ends an event, ":" lines are comments, and data without a
// preceding "event:" line carries the default "message" type.
//
// Framing mistakes fail the test immediately, so a handler that emits a
// stray line or forgets the terminating blank line is caught here
// rather than as a confusing assertion miss later.
func ParseSSEEvents(t *testing.T, body string) []SSEEvent {
	t.Helper()

	var (
		events  []SSEEvent
		pending SSEEvent
		data    []string
		open    bool
	)
	flush := func() {
		pending.Data = strings.Join(data, "\n")
		events = append(events, pending)
		pending = SSEEvent{}
		data = nil
		open = false
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		switch {
		case line == "":
			if open {
				flush()
			}
		case strings.HasPrefix(line, ":"):
			// comment line
		default:
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				if open && len(data) > 0 {
					t.Fatalf("line %d: event %q starts before the previous event was terminated", n, name)
				}
				pending.Type = name
				open = true
				continue
			}
			if payload, ok := strings.CutPrefix(line, "data: "); ok {
				if pending.Type == "" {
					pending.Type = "message"
				}
				data = append(data, payload)
				open = true
				continue
			}
			t.Fatalf("line %d: not an SSE frame line: %q", n, line)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanning SSE body: %v", err)
	}
	if open {
		t.Fatalf("body ended inside event %q, missing blank-line terminator", pending.Type)
	}
	return events
}

// FindEvent returns the first event of the given type, or nil.
func FindEvent(events []SSEEvent, eventType string) *SSEEvent {
	for i := range events {
		if events[i].Type == eventType {
			return &events[i]
		}
	}
	return nil
}

// FindAllEvents returns every event of the given type in order.
func FindAllEvents(events []SSEEvent, eventType string) []SSEEvent {
	var out []SSEEvent
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
