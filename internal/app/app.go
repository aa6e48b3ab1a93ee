// Package app assembles the application: configuration in, running
// services out.
//
// Setup builds every component in dependency order and returns an App
// holding them; Close releases everything in reverse. Commands work
// against the App instead of wiring stores and services by hand.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/config"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/recall"
	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/session"
)

// closeDrainTimeout bounds the wait for background goroutines during
// shutdown. A stuck embedding call must not hold the process open.
const closeDrainTimeout = 5 * time.Second

// App is the application container.
//
// The AI-backed services (AI, Recall, Chat, MindMaps) are nil when no
// credentials are configured; commands that need them gate with
// cfg.AI.RequireKeys() before calling Setup.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Pool     *pgxpool.Pool
	Sessions *session.Store
	Points   *gamification.Store

	AI        *gemini.Client
	Recall    *recall.Recall
	Chat      *chat.Service
	MindMaps  *mindmap.Service
	Resources *resource.Service

	// bg tracks background goroutines (recall indexing); bgCancel stops
	// them. Close drains bg before the pool goes away underneath it.
	bg       sync.WaitGroup
	bgCancel context.CancelFunc

	flushTraces func(context.Context) error
}

// Close shuts the application down: background work is cancelled and
// drained, the pool closes, pending spans flush. Safe to call more
// than once.
func (a *App) Close() error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("shutting down")

	if a.bgCancel != nil {
		a.bgCancel()
	}
	if !a.drainBackground(closeDrainTimeout) {
		logger.Warn("background tasks did not finish before timeout")
	}

	if a.Pool != nil {
		a.Pool.Close()
	}

	if a.flushTraces != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.flushTraces(flushCtx); err != nil {
			logger.Warn("flushing traces", "error", err)
		}
	}
	return nil
}

// drainBackground waits for the background WaitGroup, giving up after
// timeout. Reports whether the group drained.
func (a *App) drainBackground(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		a.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// localUserToken identifies the machine-local user the CLI, TUI and MCP
// surfaces act as. The web server provisions per-browser users instead.
const localUserToken = "cli-local"

// LocalUser returns the local user's id, creating the row on first use.
// The upsert keeps display name and locale when the row already exists.
func (a *App) LocalUser(ctx context.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := a.Pool.QueryRow(ctx, `
		INSERT INTO users (anon_token)
		VALUES ($1)
		ON CONFLICT (anon_token) DO UPDATE SET updated_at = now()
		RETURNING id`,
		localUserToken,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving local user: %w", err)
	}
	return id, nil
}
