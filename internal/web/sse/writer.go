// Package sse provides Server-Sent Events framing for streaming
// responses. The data payload is HTML rendered from templ components;
// the HTMX SSE extension swaps it into the page.
package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// ErrUnsupported is returned when the response writer cannot flush,
// which means the connection cannot stream.
var ErrUnsupported = errors.New("response writer does not support flushing")

// Writer frames SSE events onto an http.ResponseWriter.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter prepares the response for SSE and returns a Writer. Headers
// must not have been sent yet.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	// Disable proxy buffering so events reach the client per flush.
	h.Set("X-Accel-Buffering", "no")

	return &Writer{w: w, flusher: flusher}, nil
}

// write frames one event. Every line of the payload gets its own
// "data:" prefix; a bare newline inside a data line would end the event
// early on the client.
func (w *Writer) write(event, payload string) error {
	if _, err := fmt.Fprintf(w.w, "event: %s\n", event); err != nil {
		return fmt.Errorf("write event name: %w", err)
	}
	for _, line := range strings.Split(payload, "\n") {
		if _, err := fmt.Fprintf(w.w, "data: %s\n", line); err != nil {
			return fmt.Errorf("write data line: %w", err)
		}
	}
	if _, err := io.WriteString(w.w, "\n"); err != nil {
		return fmt.Errorf("write terminator: %w", err)
	}
	w.flusher.Flush()
	return nil
}

// WriteEvent renders the component and sends it as the named event.
func (w *Writer) WriteEvent(ctx context.Context, event string, comp templ.Component) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stream canceled: %w", err)
	}

	var buf bytes.Buffer
	if err := comp.Render(ctx, &buf); err != nil {
		return fmt.Errorf("render component: %w", err)
	}
	return w.write(event, buf.String())
}

// WriteTextEvent sends pre-rendered HTML as the named event. The caller
// owns escaping.
func (w *Writer) WriteTextEvent(ctx context.Context, event, html string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stream canceled: %w", err)
	}
	return w.write(event, html)
}

// WriteDone sends the final "done" event. The payload replaces the
// streaming shell, which also closes the client connection.
func (w *Writer) WriteDone(ctx context.Context, comp templ.Component) error {
	return w.WriteEvent(ctx, "done", comp)
}

// WriteError sends an "error" event with a JSON payload for clients
// that inspect it, in addition to whatever HTML fallback the handler
// swapped in.
func (w *Writer) WriteError(code, message string) error {
	data, err := json.Marshal(map[string]string{"code": code, "message": message})
	if err != nil {
		return fmt.Errorf("marshal error payload: %w", err)
	}
	return w.write("error", string(data))
}
