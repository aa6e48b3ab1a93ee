package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/session"
)

// statsMsg refreshes the footer stats line.
type statsMsg struct {
	points int
	level  gamification.Level
	streak int
}

type statsFailedMsg struct{ err error }

// historyMsg restores the transcript of a resumed conversation.
type historyMsg struct {
	msgs []*session.Message
}

// historyGoneMsg means the pinned session no longer exists; the screen
// falls back to a fresh conversation.
type historyGoneMsg struct{}

// loadStats fetches progress for the footer. Dependencies are captured
// here so the closure never touches the model off the event loop.
func (m *Model) loadStats() tea.Cmd {
	if m.points == nil {
		return nil
	}
	points, userID, ctx := m.points, m.userID, m.ctx
	return func() tea.Msg {
		st, err := points.Stats(ctx, userID)
		if err != nil {
			return statsFailedMsg{err: err}
		}
		return statsMsg{
			points: st.Points,
			level:  gamification.LevelFor(st.Points),
			streak: st.CurrentStreak,
		}
	}
}

// loadHistory restores prior turns of the pinned session, verifying it
// still belongs to this user first.
func (m *Model) loadHistory() tea.Cmd {
	sessions, userID, sessionID, ctx := m.sessions, m.userID, m.sessionID, m.ctx
	return func() tea.Msg {
		if _, err := sessions.Get(ctx, sessionID, userID); err != nil {
			return historyGoneMsg{}
		}
		msgs, err := sessions.Messages(ctx, sessionID, session.DefaultHistoryLimit)
		if err != nil {
			return historyGoneMsg{}
		}
		return historyMsg{msgs: msgs}
	}
}
