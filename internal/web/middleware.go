package web

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Context keys. Distinct types keep request values from colliding.
type (
	requestIDKey struct{}
	authKey      struct{}
)

// loggingWriter records status and size for the request log. It
// forwards Flush so SSE keeps streaming through the middleware stack.
type loggingWriter struct {
	http.ResponseWriter
	status int
	bytes  int
	wrote  bool
}

// wrapWriter reuses an existing wrapper so recovery and logging share
// one status record instead of double-wrapping.
func wrapWriter(w http.ResponseWriter) *loggingWriter {
	if lw, ok := w.(*loggingWriter); ok {
		return lw
	}
	return &loggingWriter{ResponseWriter: w}
}

func (w *loggingWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingWriter) Write(p []byte) (int, error) {
	if !w.wrote {
		w.status = http.StatusOK
		w.wrote = true
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *loggingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *loggingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// recovery turns handler panics into 500s. If the handler already
// started writing, the connection is left as-is; headers are gone.
func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lw := wrapWriter(w)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()))
				if !lw.wrote {
					s.writeFailure(lw, r, http.StatusInternalServerError,
						"internal", i18n.T(s.lang, "error.generic"))
				}
			}
		}()
		next.ServeHTTP(lw, r)
	})
}

// requestIDMiddleware ensures every request carries an X-Request-ID.
// A valid incoming UUID is kept so upstream proxies can correlate;
// anything else is replaced.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := wrapWriter(w)
		next.ServeHTTP(lw, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lw.status,
			"bytes", lw.bytes,
			"duration", time.Since(start),
			"ip", s.clientIP(r),
			"request_id", requestIDFromContext(r.Context()))
	})
}

// tracing wraps each request in a span when enabled. The span name uses
// the raw path; cardinality is acceptable at this app's scale.
func (s *Server) tracing(next http.Handler) http.Handler {
	if !s.cfg.Tracing {
		return next
	}
	tracer := otel.Tracer("mentora/web")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path)))
		defer span.End()

		lw := wrapWriter(w)
		next.ServeHTTP(lw, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.status_code", lw.status))
	})
}

// methodOverride lets plain HTML forms issue PUT, PATCH and DELETE
// through a hidden _method field. PostFormValue only reads the body for
// form content types, so JSON API requests pass through untouched.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.PostFormValue("_method")); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
