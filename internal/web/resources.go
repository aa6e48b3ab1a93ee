package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/web/component"
)

// handleResourceAdd fetches the page and returns its card. The reader
// enforces its own fetch timeout and body cap.
func (s *Server) handleResourceAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	res, err := s.cfg.Resources.Add(ctx, auth.UserID, r.PostFormValue("url"))
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	comps := []templ.Component{
		component.ResourceCard(auth.Lang, resourceItem(res)),
	}
	if shell, err := s.shellFor(r, "resources", "", ""); err == nil {
		comps = append(comps, component.SidebarOOB(shell))
	} else {
		s.logger.Warn("refreshing sidebar after resource", "error", err)
	}
	s.renderFragment(w, r, http.StatusOK, comps...)
}

func (s *Server) handleResourceDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, resource.ErrNotFound)
		return
	}
	if err := s.cfg.Resources.Delete(ctx, id, auth.UserID); err != nil {
		s.failWithError(w, r, err)
		return
	}

	// Empty 200: the outerHTML swap removes the card.
	w.WriteHeader(http.StatusOK)
}
