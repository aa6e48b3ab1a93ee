package cmd

import (
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/config"
	"github.com/mentora-app/mentora/internal/session"
)

// activeSession reads the session pointer the last terminal
// conversation left behind. uuid.Nil means there is none; the chat
// service then opens a fresh session.
func activeSession() uuid.UUID {
	dir, err := config.DefaultConfigDir()
	if err != nil {
		return uuid.Nil
	}
	st, err := session.LoadState(dir)
	if err != nil || st == nil {
		return uuid.Nil
	}
	return st.SessionID
}

// rememberSession persists the pointer so the next ask or chat picks
// the conversation back up. Best effort: a failed write costs only
// continuity, never the exchange itself.
func rememberSession(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	dir, err := config.DefaultConfigDir()
	if err != nil {
		return
	}
	_ = session.SaveState(dir, session.State{SessionID: id})
}

// forgetSession drops the pointer, e.g. after the active conversation
// is removed.
func forgetSession() {
	dir, err := config.DefaultConfigDir()
	if err != nil {
		return
	}
	_ = session.ClearState(dir)
}
