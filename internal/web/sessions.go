package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/session"
)

// handleSessionRename serves the plain rename form in the chat header.
func (s *Server) handleSessionRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, session.ErrNotFound)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		// Nothing to do; back to the conversation.
		http.Redirect(w, r, "/chat/"+id.String(), http.StatusSeeOther)
		return
	}
	if runes := []rune(title); len(runes) > session.MaxTitleLen {
		title = string(runes[:session.MaxTitleLen])
	}

	if err := s.cfg.Sessions.Rename(ctx, id, auth.UserID, title); err != nil {
		s.failWithError(w, r, err)
		return
	}
	http.Redirect(w, r, "/chat/"+id.String(), http.StatusSeeOther)
}

func (s *Server) handleSessionArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, session.ErrNotFound)
		return
	}
	archived := r.PostFormValue("archived") != "false"

	if err := s.cfg.Sessions.Archive(ctx, id, auth.UserID, archived); err != nil {
		s.failWithError(w, r, err)
		return
	}

	target := "/chat"
	if !archived {
		target = "/chat/" + id.String()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, session.ErrNotFound)
		return
	}
	if err := s.cfg.Sessions.Delete(ctx, id, auth.UserID); err != nil {
		s.failWithError(w, r, err)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/chat")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}
