package web

import (
	"context"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/web/component"
)

// generateTimeout bounds one blocking AI generation (maps and API chat).
const generateTimeout = 2 * time.Minute

// handleMindMapCreate generates a map and returns its card, plus a
// refreshed sidebar so the points chip moves immediately.
func (s *Server) handleMindMapCreate(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	m, err := s.cfg.MindMaps.Generate(ctx, auth.UserID, r.PostFormValue("topic"))
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	comps := []templ.Component{
		component.MindMapCard(auth.Lang, component.MindMapSummary{
			ID:        m.ID.String(),
			Topic:     m.Topic,
			CreatedAt: m.CreatedAt,
		}),
	}
	if shell, err := s.shellFor(r, "mindmap", "", ""); err == nil {
		comps = append(comps, component.SidebarOOB(shell))
	} else {
		s.logger.Warn("refreshing sidebar after mind map", "error", err)
	}
	s.renderFragment(w, r, http.StatusOK, comps...)
}

func (s *Server) handleMindMapDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, mindmap.ErrNotFound)
		return
	}
	if err := s.cfg.MindMaps.Delete(ctx, id, auth.UserID); err != nil {
		s.failWithError(w, r, err)
		return
	}

	// Empty 200: the outerHTML swap removes the card.
	w.WriteHeader(http.StatusOK)
}
