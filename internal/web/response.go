package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/session"
	"github.com/mentora-app/mentora/internal/web/component"
)

// ErrorResponse is the JSON error envelope of the API.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON marshals v into a buffer first, so a failed encode becomes
// a clean 500 instead of a torn 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	buf, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		http.Error(w, `{"error":"internal","code":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// renderFragment renders components as one HTML fragment response, in
// order, buffered so a render error never emits half a fragment.
func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, status int, comps ...templ.Component) {
	var buf bytes.Buffer
	for _, c := range comps {
		if err := c.Render(r.Context(), &buf); err != nil {
			s.logger.Error("rendering fragment", "path", r.URL.Path, "error", err)
			http.Error(w, i18n.T(s.lang, "error.generic"), http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPage renders a full document. Pages are personal, so caches are
// told to stay away.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, shell component.Shell, body templ.Component) {
	var buf bytes.Buffer
	if err := component.Layout(shell, body).Render(r.Context(), &buf); err != nil {
		s.logger.Error("rendering page", "path", r.URL.Path, "error", err)
		http.Error(w, i18n.T(s.lang, "error.generic"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// writeFailure sends an error in the shape the caller can consume:
// JSON for the API, a toast fragment for htmx (which ignores non-2xx
// bodies), a plain page for everything else.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.writeJSONError(w, status, code, message)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		s.renderFragment(w, r, http.StatusOK, component.Toast(component.ToastError, message))
		return
	}
	http.Error(w, message, status)
}

// errorStatus maps domain errors onto an HTTP status, a machine code
// and a message key.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, mindmap.ErrNotFound),
		errors.Is(err, resource.ErrNotFound):
		return http.StatusNotFound, "not_found", "error.not.found"
	case errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest, "empty_message", "error.empty.message"
	case errors.Is(err, mindmap.ErrEmptyTopic):
		return http.StatusBadRequest, "empty_topic", "error.empty.topic"
	case errors.Is(err, resource.ErrInvalidURL),
		errors.Is(err, resource.ErrNotHTML):
		return http.StatusUnprocessableEntity, "invalid_url", "error.invalid.url"
	case errors.Is(err, resource.ErrBlockedURL):
		return http.StatusUnprocessableEntity, "blocked_url", "error.blocked.url"
	case errors.Is(err, resource.ErrDuplicate):
		return http.StatusConflict, "duplicate", "error.duplicate"
	case errors.Is(err, gemini.ErrAllKeysFailed):
		return http.StatusServiceUnavailable, "ai_unavailable", "error.ai.unavailable"
	case errors.Is(err, mindmap.ErrBadMapJSON),
		errors.Is(err, mindmap.ErrTooDeep),
		errors.Is(err, mindmap.ErrTooWide),
		errors.Is(err, mindmap.ErrTooManyNodes):
		return http.StatusBadGateway, "bad_model_output", "error.generic"
	default:
		return http.StatusInternalServerError, "internal", "error.generic"
	}
}

// failWithError logs err and answers with its mapped failure.
func (s *Server) failWithError(w http.ResponseWriter, r *http.Request, err error) {
	lang := authFrom(r.Context()).Lang
	if lang == "" {
		lang = s.lang
	}
	status, code, key := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected",
			"path", r.URL.Path, "status", status, "error", err)
	}
	s.writeFailure(w, r, status, code, i18n.T(lang, key))
}
