// Package tui is the terminal chat client.
//
// One Bubble Tea model drives the whole screen: a scrollable viewport
// with the transcript, a textarea for input, a spinner while the
// mentor thinks, and a footer with progress stats and key help. Reply
// streaming is bridged into the event loop through a single channel
// of discriminated events; listenForStream pulls one event per
// Update cycle, so the UI never blocks on the model call.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/session"
)

// Config carries the dependencies for a chat screen.
type Config struct {
	Chat     *chat.Service
	Sessions *session.Store
	Points   *gamification.Store // nil hides the stats line

	UserID uuid.UUID

	// SessionID resumes an existing conversation; uuid.Nil starts
	// fresh on the first message.
	SessionID uuid.UUID

	Lang   i18n.Lang
	Logger *slog.Logger

	// OnSession is told whenever an exchange pins a conversation, so
	// the caller can persist the pointer. Optional.
	OnSession func(uuid.UUID)
}

func (c Config) validate() error {
	if c.Chat == nil {
		return errors.New("tui: chat service is required")
	}
	if c.Sessions == nil {
		return errors.New("tui: session store is required")
	}
	if c.UserID == uuid.Nil {
		return errors.New("tui: user id is required")
	}
	return nil
}

// Run starts the chat screen and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	m, err := New(ctx, cfg)
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("chat screen exited: %w", err)
	}
	return nil
}
