package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/session"
	"github.com/mentora-app/mentora/internal/web/component"
	"github.com/mentora-app/mentora/internal/web/sse"
)

// sseTimeout bounds one streamed answer end to end, titling included.
const sseTimeout = 5 * time.Minute

// handleChatSend echoes the user's message and returns the stream
// shell. Nothing is persisted here; the stream endpoint owns the
// conversation, so a client that never connects costs nothing.
func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())

	text := strings.TrimSpace(r.PostFormValue("q"))
	if text == "" {
		s.failWithError(w, r, chat.ErrEmptyMessage)
		return
	}
	sessionID := strings.TrimSpace(r.PostFormValue("session_id"))
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			s.failWithError(w, r, session.ErrNotFound)
			return
		}
	}

	msgID := uuid.NewString()
	q := url.Values{"q": {text}, "msg_id": {msgID}}
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}
	streamURL := "/chat/stream?" + q.Encode()

	echo := component.Message{ID: "echo-" + msgID, Role: "user", Text: text}
	data := component.ChatData{Lang: auth.Lang, DisplayName: auth.DisplayName}
	s.renderFragment(w, r, http.StatusOK,
		component.MessageBubble(data, echo),
		component.StreamShell(auth.Lang, msgID, streamURL))
}

// handleChatStream runs the conversation turn over SSE. Chunk events
// carry the accumulated answer; the final done event replaces the
// shell with the persisted message and refreshes the sidebar.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())

	query := r.URL.Query()
	text := strings.TrimSpace(query.Get("q"))
	msgID := query.Get("msg_id")
	if text == "" || msgID == "" {
		s.writeFailure(w, r, http.StatusBadRequest, "bad_request",
			i18n.T(auth.Lang, "error.empty.message"))
		return
	}
	if _, err := uuid.Parse(msgID); err != nil {
		s.writeFailure(w, r, http.StatusBadRequest, "bad_request",
			i18n.T(auth.Lang, "error.generic"))
		return
	}
	var sessionID uuid.UUID
	if sid := query.Get("session_id"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			s.failWithError(w, r, session.ErrNotFound)
			return
		}
		sessionID = id
	}

	sw, err := sse.NewWriter(w)
	if err != nil {
		s.logger.Error("opening sse stream", "error", err)
		s.writeFailure(w, r, http.StatusInternalServerError, "internal",
			i18n.T(auth.Lang, "error.generic"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sseTimeout)
	defer cancel()

	var acc strings.Builder
	reply, err := s.cfg.Chat.Stream(ctx, auth.UserID, sessionID, text,
		func(cctx context.Context, chunk string) error {
			acc.WriteString(chunk)
			return sw.WriteTextEvent(cctx, "chunk", templ.EscapeString(acc.String()))
		})
	if err != nil {
		s.streamError(ctx, sw, r, msgID, err)
		return
	}

	s.streamDone(ctx, sw, r, msgID, reply)
}

// streamDone sends the final event: the persisted answer replacing the
// shell, the composer retargeted at the session, the refreshed sidebar
// and any reward toasts.
func (s *Server) streamDone(ctx context.Context, sw *sse.Writer, r *http.Request, msgID string, reply *chat.Reply) {
	auth := authFrom(r.Context())

	comps := []templ.Component{
		component.FinalBubbleOOB(component.Message{ID: msgID, Role: "model", Text: reply.Text}),
		component.SessionIDInputOOB(reply.SessionID.String()),
	}

	shell, err := s.shellFor(r, "chat", "", reply.SessionID.String())
	if err != nil {
		s.logger.Warn("refreshing sidebar after stream", "error", err)
	} else {
		comps = append(comps, component.SidebarOOB(shell))
		if reply.LeveledUp {
			comps = append(comps, component.Toast(component.ToastSuccess,
				i18n.Tf(auth.Lang, "stats.level.up", shell.Stats.LevelName)))
		}
	}
	for _, badge := range reply.NewBadges {
		comps = append(comps, component.Toast(component.ToastSuccess,
			i18n.Tf(auth.Lang, "stats.badge.new", badge.Name(auth.Lang))))
	}

	if err := sw.WriteDone(ctx, templ.Join(comps...)); err != nil {
		s.logger.Debug("closing chat stream", "error", err)
	}
}

// streamError swaps the shell for a localized error bubble. A trailing
// empty done event makes the client drop the connection even if the
// out-of-band swap raced.
func (s *Server) streamError(ctx context.Context, sw *sse.Writer, r *http.Request, msgID string, err error) {
	if ctx.Err() != nil {
		s.logger.Debug("chat stream aborted", "error", err)
		return
	}

	auth := authFrom(r.Context())
	status, _, key := errorStatus(err)
	text := i18n.T(auth.Lang, key)
	if status >= http.StatusInternalServerError && !isOutage(err) {
		s.logger.Error("chat stream failed", "error", err)
	} else {
		s.logger.Warn("chat stream rejected", "error", err)
	}

	if werr := sw.WriteEvent(ctx, "error", templ.Join(
		component.ErrorBubbleOOB(msgID, text),
		component.Toast(component.ToastError, text),
	)); werr != nil {
		s.logger.Debug("writing stream error", "error", werr)
		return
	}
	_ = sw.WriteTextEvent(ctx, "done", "")
}

func isOutage(err error) bool {
	status, _, _ := errorStatus(err)
	return status == http.StatusServiceUnavailable
}
