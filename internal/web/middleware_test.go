package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingWriter_CapturesStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	lw := wrapWriter(rec)

	lw.WriteHeader(http.StatusTeapot)
	n, err := lw.Write([]byte("chá"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, lw.status)
	assert.Equal(t, n, lw.bytes)
	assert.True(t, lw.wrote)
}

func TestLoggingWriter_ImplicitOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	lw := wrapWriter(rec)

	_, err := lw.Write([]byte("corpo"))
	require.NoError(t, err)

	// Write before WriteHeader means the implicit 200.
	assert.Equal(t, http.StatusOK, lw.status)
}

func TestWrapWriter_NoDoubleWrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	lw := wrapWriter(rec)
	assert.Same(t, lw, wrapWriter(lw))
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	h := s.recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Algo deu errado")
}

func TestRecovery_PanicAfterWriteStarted(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	h := s.recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("parcial"))
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	// Headers are gone; the response is left as the handler wrote it.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "parcial", rec.Body.String())
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	h := s.recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var seen string
	h := requestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get("X-Request-ID")
	_, err := uuid.Parse(id)
	require.NoError(t, err, "generated id must be a UUID")
	assert.Equal(t, id, seen, "context and header carry the same id")
}

func TestRequestID_ReusesValidIncoming(t *testing.T) {
	t.Parallel()

	h := requestIDMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	incoming := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", incoming)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, incoming, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ReplacesInvalid(t *testing.T) {
	t.Parallel()

	h := requestIDMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "spoofed; DROP TABLE users")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	got := rec.Header().Get("X-Request-ID")
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.NotEqual(t, "spoofed; DROP TABLE users", got)
}

func TestMethodOverride_Form(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		field  string
		want   string
	}{
		{name: "put", field: "PUT", want: http.MethodPut},
		{name: "delete", field: "DELETE", want: http.MethodDelete},
		{name: "lowercase patch", field: "patch", want: http.MethodPatch},
		{name: "get is not an override", field: "GET", want: http.MethodPost},
		{name: "garbage ignored", field: "EXPLODE", want: http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			h := methodOverride(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.Method
			}))

			body := strings.NewReader("_method=" + tt.field + "&title=Oi")
			r := httptest.NewRequest(http.MethodPost, "/sessions/x", body)
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			h.ServeHTTP(httptest.NewRecorder(), r)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMethodOverride_KeepsFormValues(t *testing.T) {
	t.Parallel()

	var title string
	h := methodOverride(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		title = r.PostFormValue("title")
	}))

	body := strings.NewReader("_method=PUT&title=Fotossíntese")
	r := httptest.NewRequest(http.MethodPost, "/sessions/x", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "Fotossíntese", title)
}

func TestMethodOverride_LeavesJSONBody(t *testing.T) {
	t.Parallel()

	var method, body string
	h := methodOverride(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		method = r.Method
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"_method":"DELETE","message":"oi"}`))
	r.Header.Set("Content-Type", "application/json")

	h.ServeHTTP(httptest.NewRecorder(), r)

	// PostFormValue ignores JSON bodies, so the payload survives intact.
	assert.Equal(t, http.MethodPost, method)
	assert.JSONEq(t, `{"_method":"DELETE","message":"oi"}`, body)
}

func TestTracing_Disabled(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	called := false
	h := s.tracing(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTracing_Enabled(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	s.cfg.Tracing = true

	var gotCtx context.Context
	h := s.tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtx = r.Context()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	// Without a configured provider the span is a no-op, but the
	// request must still flow through with a context.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, gotCtx)
}
