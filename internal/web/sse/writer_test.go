package sse_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/testutil"
	"github.com/mentora-app/mentora/internal/web/sse"
)

// noFlushWriter hides the Flusher that httptest.ResponseRecorder
// implements.
type noFlushWriter struct {
	http.ResponseWriter
}

func textComponent(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestNewWriter_Headers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	_, err := sse.NewWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
}

func TestNewWriter_RequiresFlusher(t *testing.T) {
	t.Parallel()

	_, err := sse.NewWriter(noFlushWriter{httptest.NewRecorder()})
	assert.ErrorIs(t, err, sse.ErrUnsupported)
}

func TestWriteTextEvent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteTextEvent(context.Background(), "chunk", "<p>olá</p>"))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "chunk", events[0].Type)
	assert.Equal(t, "<p>olá</p>", events[0].Data)
}

func TestWriteTextEvent_MultilinePayload(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	// A newline inside a data line would terminate the event early;
	// every line must get its own data: prefix.
	require.NoError(t, w.WriteTextEvent(context.Background(), "chunk", "linha um\nlinha dois"))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "linha um\nlinha dois", events[0].Data)
}

func TestWriteEvent_RendersComponent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteEvent(context.Background(), "done", textComponent(`<div id="x">fim</div>`)))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "done", events[0].Type)
	assert.Equal(t, `<div id="x">fim</div>`, events[0].Data)
}

func TestWriteEvent_CanceledContext(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.WriteEvent(ctx, "chunk", textComponent("nunca"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Body.String())
}

func TestWriteDone(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteDone(context.Background(), textComponent("pronto")))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "done", events[0].Type)
}

func TestWriteError_JSONPayload(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteError("ai_unavailable", "tente de novo"))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0].Type)
	assert.JSONEq(t, `{"code":"ai_unavailable","message":"tente de novo"}`, events[0].Data)
}

func TestWriter_SequentialEvents(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.WriteTextEvent(ctx, "chunk", "primeira"))
	require.NoError(t, w.WriteTextEvent(ctx, "chunk", "primeira parte e segunda"))
	require.NoError(t, w.WriteDone(ctx, textComponent("fim")))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "chunk", events[0].Type)
	assert.Equal(t, "chunk", events[1].Type)
	assert.Equal(t, "done", events[2].Type)
}
