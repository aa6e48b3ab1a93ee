package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/session"
	"github.com/mentora-app/mentora/internal/web/component"
)

// sidebarSessions caps the recent-conversations list.
const sidebarSessions = 20

// pageListLimit caps the cards shown on the list pages.
const pageListLimit = 100

// handleHome sends the visitor to the area they used last.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	target := "/chat"
	if c, err := r.Cookie(modeCookie); err == nil {
		switch c.Value {
		case "mindmap", "resources", "progress":
			target = "/" + c.Value
		}
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// handleChatPage renders a conversation, or a fresh composer when no
// session is named.
func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	data := component.ChatData{Lang: auth.Lang, DisplayName: auth.DisplayName}
	title := i18n.T(auth.Lang, "chat.untitled")
	activeSession := ""

	if idStr := r.PathValue("id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			s.failWithError(w, r, session.ErrNotFound)
			return
		}
		sess, err := s.cfg.Sessions.Get(ctx, id, auth.UserID)
		if err != nil {
			s.failWithError(w, r, err)
			return
		}
		msgs, err := s.cfg.Sessions.Messages(ctx, sess.ID, 0)
		if err != nil {
			s.failWithError(w, r, err)
			return
		}

		data.SessionID = sess.ID.String()
		data.Title = sess.Title
		data.Archived = sess.Archived
		data.Messages = make([]component.Message, 0, len(msgs))
		for _, m := range msgs {
			data.Messages = append(data.Messages, component.Message{
				ID:   m.ID.String(),
				Role: m.Role,
				Text: m.Content,
			})
		}

		if sess.Title != "" {
			title = sess.Title
		}
		activeSession = data.SessionID
	}

	shell, err := s.shellFor(r, "chat", title, activeSession)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}
	data.CSRFToken = shell.CSRFToken

	s.setCookie(w, modeCookie, "chat", true)
	s.renderPage(w, r, shell, component.ChatPage(data))
}

func (s *Server) handleMindMapList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	maps, err := s.cfg.MindMaps.List(ctx, auth.UserID, pageListLimit)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	items := make([]component.MindMapSummary, 0, len(maps))
	for _, m := range maps {
		items = append(items, component.MindMapSummary{
			ID:        m.ID.String(),
			Topic:     m.Topic,
			CreatedAt: m.CreatedAt,
		})
	}

	shell, err := s.shellFor(r, "mindmap", i18n.T(auth.Lang, "mindmap.title"), "")
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	s.setCookie(w, modeCookie, "mindmap", true)
	s.renderPage(w, r, shell, component.MindMapListPage(component.MindMapListData{
		Lang: auth.Lang,
		Maps: items,
	}))
}

func (s *Server) handleMindMapDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, session.ErrNotFound)
		return
	}
	m, err := s.cfg.MindMaps.Get(ctx, id, auth.UserID)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	shell, err := s.shellFor(r, "mindmap", m.Topic, "")
	if err != nil {
		s.failWithError(w, r, err)
		return
	}
	s.renderPage(w, r, shell, component.MindMapDetailPage(component.MindMapDetailData{
		Lang:      auth.Lang,
		Topic:     m.Topic,
		CreatedAt: m.CreatedAt,
		Root:      m.Root,
	}))
}

func (s *Server) handleResourcesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	resources, err := s.cfg.Resources.List(ctx, auth.UserID, pageListLimit)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	items := make([]component.ResourceItem, 0, len(resources))
	for i := range resources {
		items = append(items, resourceItem(&resources[i]))
	}

	shell, err := s.shellFor(r, "resources", i18n.T(auth.Lang, "resources.title"), "")
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	s.setCookie(w, modeCookie, "resources", true)
	s.renderPage(w, r, shell, component.ResourcesPage(component.ResourcesData{
		Lang:      auth.Lang,
		Resources: items,
	}))
}

func (s *Server) handleProgressPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	stats, err := s.cfg.Points.Stats(ctx, auth.UserID)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}
	awarded, err := s.cfg.Points.Badges(ctx, auth.UserID)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	shell, err := s.shellFor(r, "progress", i18n.T(auth.Lang, "stats.title"), "")
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	s.setCookie(w, modeCookie, "progress", true)
	s.renderPage(w, r, shell, component.ProgressPage(component.ProgressData{
		Lang:  auth.Lang,
		Stats: shell.Stats,
		Counts: component.ActivityCounts{
			Messages:      stats.MessagesSent,
			MindMaps:      stats.MindMapsCreated,
			Resources:     stats.ResourcesAdded,
			LongestStreak: stats.LongestStreak,
		},
		Badges: badgeViews(auth.Lang, awarded),
	}))
}

// shellFor assembles the page frame: sidebar sessions, stats and the
// CSRF token for this visitor.
func (s *Server) shellFor(r *http.Request, active, title, activeSession string) (component.Shell, error) {
	ctx := r.Context()
	auth := authFrom(ctx)

	sessions, err := s.cfg.Sessions.List(ctx, auth.UserID, false, sidebarSessions, 0)
	if err != nil {
		return component.Shell{}, err
	}
	stats, err := s.cfg.Points.Stats(ctx, auth.UserID)
	if err != nil {
		return component.Shell{}, err
	}

	items := make([]component.SessionItem, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, component.SessionItem{ID: sess.ID.String(), Title: sess.Title})
	}

	open := true
	if c, err := r.Cookie(sidebarCookie); err == nil && c.Value == "closed" {
		open = false
	}

	return component.Shell{
		Lang:          auth.Lang,
		Title:         title,
		Active:        active,
		CSRFToken:     s.csrfToken(auth.Token),
		SidebarOpen:   open,
		DisplayName:   auth.DisplayName,
		Sessions:      items,
		ActiveSession: activeSession,
		Stats:         statsSummary(auth.Lang, stats),
	}, nil
}

// statsSummary condenses stats for the sidebar and the navbar chip.
func statsSummary(lang i18n.Lang, st *gamification.Stats) component.StatsSummary {
	level, pct := gamification.Progress(st.Points)
	sum := component.StatsSummary{
		Points:    st.Points,
		LevelName: level.Name(lang),
		Progress:  pct,
		Streak:    st.CurrentStreak,
	}
	if level.Next >= 0 {
		sum.Remaining = level.Next - st.Points
		sum.NextName = gamification.LevelFor(level.Next).Name(lang)
	}
	return sum
}

func badgeViews(lang i18n.Lang, awarded []gamification.AwardedBadge) []component.BadgeView {
	byID := make(map[gamification.BadgeID]gamification.AwardedBadge, len(awarded))
	for _, b := range awarded {
		byID[b.ID] = b
	}

	all := gamification.AllBadges()
	views := make([]component.BadgeView, 0, len(all))
	for _, id := range all {
		got, earned := byID[id]
		views = append(views, component.BadgeView{
			ID:        string(id),
			Name:      id.Name(lang),
			Desc:      id.Description(lang),
			Earned:    earned,
			AwardedAt: got.AwardedAt,
		})
	}
	return views
}

func resourceItem(res *resource.Resource) component.ResourceItem {
	return component.ResourceItem{
		ID:        res.ID.String(),
		URL:       res.URL,
		Host:      hostOf(res.URL, res.SiteName),
		Title:     res.Title,
		Excerpt:   res.Excerpt,
		CreatedAt: res.CreatedAt,
	}
}

func hostOf(rawURL, siteName string) string {
	if siteName != "" {
		return siteName
	}
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return rawURL
}
