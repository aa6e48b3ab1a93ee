package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/session"
)

// apiMaxBody caps JSON request bodies at 1MB.
const apiMaxBody = 1 << 20

// Default and maximum page sizes for the list endpoints.
const (
	apiSessionsLimit = 50
	apiMessagesLimit = 100
	apiMindMapsLimit = 50
	apiMaxListLimit  = 200
	apiMaxOffset     = 10000
)

type sessionDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type mindMapDTO struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic"`
	CreatedAt time.Time     `json:"created_at"`
	Root      *mindmap.Node `json:"root,omitempty"`
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID  string   `json:"session_id"`
	SessionNew bool     `json:"session_new"`
	Title      string   `json:"title,omitempty"`
	Text       string   `json:"text"`
	Points     int      `json:"points"`
	NewBadges  []string `json:"new_badges,omitempty"`
	LeveledUp  bool     `json:"leveled_up"`
}

type levelDTO struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Next      int    `json:"next"` // -1 at the top level
}

type badgeDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AwardedAt time.Time `json:"awarded_at"`
}

type statsResponse struct {
	Points          int        `json:"points"`
	Level           levelDTO   `json:"level"`
	ProgressPct     int        `json:"progress_pct"`
	MessagesSent    int        `json:"messages_sent"`
	MindMapsCreated int        `json:"mindmaps_created"`
	SessionsStarted int        `json:"sessions_started"`
	ResourcesAdded  int        `json:"resources_added"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastActiveOn    string     `json:"last_active_on,omitempty"` // YYYY-MM-DD
	Badges          []badgeDTO `json:"badges"`
}

// handleAPICSRF hands out a CSRF token bound to the caller's identity,
// so API clients can pass X-CSRF-Token on mutating requests.
func (s *Server) handleAPICSRF(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]string{"token": s.csrfToken(auth.Token)})
}

// handleAPIStats returns the caller's full gamification state.
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
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

	level, pct := gamification.Progress(stats.Points)
	resp := statsResponse{
		Points: stats.Points,
		Level: levelDTO{
			Index:     level.Index,
			Name:      level.Name(auth.Lang),
			Threshold: level.Threshold,
			Next:      level.Next,
		},
		ProgressPct:     pct,
		MessagesSent:    stats.MessagesSent,
		MindMapsCreated: stats.MindMapsCreated,
		SessionsStarted: stats.SessionsStarted,
		ResourcesAdded:  stats.ResourcesAdded,
		CurrentStreak:   stats.CurrentStreak,
		LongestStreak:   stats.LongestStreak,
		Badges:          make([]badgeDTO, 0, len(awarded)),
	}
	if stats.LastActiveOn != nil {
		resp.LastActiveOn = stats.LastActiveOn.Format(time.DateOnly)
	}
	for _, b := range awarded {
		resp.Badges = append(resp.Badges, badgeDTO{
			ID:        string(b.ID),
			Name:      b.ID.Name(auth.Lang),
			AwardedAt: b.AwardedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleAPISessions lists the caller's conversations, newest first.
// Query parameters: limit, offset, archived=true.
func (s *Server) handleAPISessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	limit := parseIntParam(r, "limit", apiSessionsLimit, 1, apiMaxListLimit)
	offset := parseIntParam(r, "offset", 0, 0, apiMaxOffset)
	includeArchived := r.URL.Query().Get("archived") == "true"

	sessions, err := s.cfg.Sessions.List(ctx, auth.UserID, includeArchived, int32(limit), int32(offset))
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	items := make([]sessionDTO, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, sessionDTO{
			ID:        sess.ID.String(),
			Title:     sess.Title,
			Archived:  sess.Archived,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleAPIMessages lists the messages of one conversation in order.
func (s *Server) handleAPIMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failWithError(w, r, session.ErrNotFound)
		return
	}
	// Messages does not scope by owner; resolve the session first so a
	// foreign conversation reads as missing.
	if _, err := s.cfg.Sessions.Get(ctx, id, auth.UserID); err != nil {
		s.failWithError(w, r, err)
		return
	}

	limit := parseIntParam(r, "limit", apiMessagesLimit, 1, 1000)
	msgs, err := s.cfg.Sessions.Messages(ctx, id, int32(limit))
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	items := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, messageDTO{
			ID:        m.ID.String(),
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleAPIChat answers one message in a blocking call. An empty
// session_id starts a new conversation.
func (s *Server) handleAPIChat(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, apiMaxBody)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}

	sessionID := uuid.Nil
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid_session", "session_id must be a UUID")
			return
		}
		sessionID = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	reply, err := s.cfg.Chat.Ask(ctx, auth.UserID, sessionID, req.Message)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	resp := chatResponse{
		SessionID:  reply.SessionID.String(),
		SessionNew: reply.SessionNew,
		Title:      reply.Title,
		Text:       reply.Text,
		Points:     reply.Points,
		LeveledUp:  reply.LeveledUp,
	}
	for _, b := range reply.NewBadges {
		resp.NewBadges = append(resp.NewBadges, string(b))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleAPIMindMaps lists the caller's mind maps without their trees.
func (s *Server) handleAPIMindMaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth := authFrom(ctx)

	limit := parseIntParam(r, "limit", apiMindMapsLimit, 1, apiMaxListLimit)
	maps, err := s.cfg.MindMaps.List(ctx, auth.UserID, limit)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	items := make([]mindMapDTO, 0, len(maps))
	for _, m := range maps {
		items = append(items, mindMapDTO{
			ID:        m.ID.String(),
			Topic:     m.Topic,
			CreatedAt: m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleAPIMindMapCreate generates a mind map and returns it whole.
func (s *Server) handleAPIMindMapCreate(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, apiMaxBody)
	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	m, err := s.cfg.MindMaps.Generate(ctx, auth.UserID, req.Topic)
	if err != nil {
		s.failWithError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, mindMapDTO{
		ID:        m.ID.String(),
		Topic:     m.Topic,
		CreatedAt: m.CreatedAt,
		Root:      m.Root,
	})
}

// parseIntParam parses an integer query parameter with bounds checking.
func parseIntParam(r *http.Request, name string, defaultVal, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
