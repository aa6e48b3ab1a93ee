package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/web/component"
)

// maxDisplayName caps the profile name in runes.
const maxDisplayName = 60

// handleSidebarToggle flips the persisted sidebar state. The click
// already toggled the class client-side; this keeps page loads in sync.
func (s *Server) handleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	next := "closed"
	if c, err := r.Cookie(sidebarCookie); err == nil && c.Value == "closed" {
		next = "open"
	}
	s.setCookie(w, sidebarCookie, next, true)
	w.WriteHeader(http.StatusNoContent)
}

// handleProfileUpdate stores the display name and returns the rebuilt
// sidebar. An empty name goes back to guest mode.
func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	name := strings.TrimSpace(r.PostFormValue("display_name"))
	if runes := []rune(name); len(runes) > maxDisplayName {
		name = string(runes[:maxDisplayName])
	}

	if _, err := s.cfg.Pool.Exec(ctx,
		`UPDATE users SET display_name = $1, updated_at = now() WHERE id = $2`,
		name, auth.UserID); err != nil {
		s.failWithError(w, r, err)
		return
	}

	// The context still carries the old name; swap it before rebuilding.
	auth.DisplayName = name
	auth.Named = name != ""
	r = r.WithContext(context.WithValue(ctx, authKey{}, auth))

	shell, err := s.shellFor(r, s.activeMode(r), "", activeSessionFromHX(r))
	if err != nil {
		s.failWithError(w, r, err)
		return
	}
	s.renderFragment(w, r, http.StatusOK,
		component.Sidebar(shell),
		component.Toast(component.ToastSuccess, i18n.T(auth.Lang, "profile.saved")))
}

// activeMode maps the mode cookie to a nav key for sidebar rebuilds.
func (s *Server) activeMode(r *http.Request) string {
	if c, err := r.Cookie(modeCookie); err == nil {
		switch c.Value {
		case "chat", "mindmap", "resources", "progress":
			return c.Value
		}
	}
	return "chat"
}

// activeSessionFromHX recovers the open conversation from the htmx
// current-URL header so a sidebar rebuild keeps its highlight.
func activeSessionFromHX(r *http.Request) string {
	cur := r.Header.Get("HX-Current-URL")
	if cur == "" {
		return ""
	}
	u, err := url.Parse(cur)
	if err != nil {
		return ""
	}
	rest, ok := strings.CutPrefix(u.Path, "/chat/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
