// Package chat orchestrates one exchange with the mentor.
//
// A request flows through: resolve session → load history and recall
// context in parallel → generate the reply (streaming or not) →
// persist both turns in one transaction → award points → embed the
// turns → title the session if it is new. Everything after
// persistence is best-effort; the user's exchange is never lost to a
// failure in points, embeddings or titling.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/internal/database"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/recall"
	"github.com/mentora-app/mentora/internal/session"
)

const (
	// recallSearchTimeout limits how long recall may delay a reply.
	recallSearchTimeout = 5 * time.Second

	// titleTimeout bounds the title generation call.
	titleTimeout = 5 * time.Second

	// titleInputMaxRunes caps how much of the first message feeds the
	// title prompt.
	titleInputMaxRunes = 500

	// titleMaxWords is the word budget for generated titles.
	titleMaxWords = 6
)

// ErrEmptyMessage indicates the user sent only whitespace.
var ErrEmptyMessage = errors.New("empty message")

// StreamFunc receives each reply chunk as it arrives.
// Returning an error aborts the stream.
type StreamFunc func(ctx context.Context, chunk string) error

// Config carries the service dependencies.
type Config struct {
	AI       *gemini.Client
	Pool     *pgxpool.Pool
	Sessions *session.Store
	Recall   *recall.Recall      // nil = recall disabled
	Points   *gamification.Store // nil = points disabled
	Logger   *slog.Logger

	// Lang selects the catalog for user-facing fallback messages.
	Lang string

	// Background lifecycle for async embedding. BackgroundCtx outlives
	// individual requests; WG tracks the goroutines for shutdown.
	BackgroundCtx context.Context //nolint:containedctx // App lifecycle context, not a request context
	WG            *sync.WaitGroup
}

func (cfg Config) validate() error {
	if cfg.AI == nil {
		return errors.New("ai client is required")
	}
	if cfg.Pool == nil {
		return errors.New("database pool is required")
	}
	if cfg.Sessions == nil {
		return errors.New("session store is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Recall != nil && cfg.WG == nil {
		return errors.New("wg is required when recall is enabled")
	}
	return nil
}

// Service answers user messages. Safe for concurrent use.
type Service struct {
	ai       *gemini.Client
	pool     *pgxpool.Pool
	sessions *session.Store
	recall   *recall.Recall
	points   *gamification.Store
	logger   *slog.Logger
	lang     string

	bgCtx context.Context //nolint:containedctx // App lifecycle context, not a request context
	wg    *sync.WaitGroup
}

// New creates the chat service.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	bgCtx := cfg.BackgroundCtx
	if bgCtx == nil {
		bgCtx = context.Background()
	}

	return &Service{
		ai:       cfg.AI,
		pool:     cfg.Pool,
		sessions: cfg.Sessions,
		recall:   cfg.Recall,
		points:   cfg.Points,
		logger:   cfg.Logger,
		lang:     cfg.Lang,
		bgCtx:    bgCtx,
		wg:       cfg.WG,
	}, nil
}

// Reply is the outcome of one exchange.
type Reply struct {
	SessionID  uuid.UUID
	SessionNew bool
	Title      string

	UserMessage  *session.Message
	ModelMessage *session.Message
	Text         string

	// Gamification outcome of this exchange, flattened for display.
	Points    int
	NewBadges []gamification.BadgeID
	LeveledUp bool
}

// Ask answers text in one blocking call. Pass uuid.Nil as sessionID to
// start a new conversation.
func (s *Service) Ask(ctx context.Context, userID, sessionID uuid.UUID, text string) (*Reply, error) {
	return s.respond(ctx, userID, sessionID, text, nil)
}

// Stream answers text, delivering chunks through cb as they arrive.
// The returned Reply carries the full accumulated text.
func (s *Service) Stream(ctx context.Context, userID, sessionID uuid.UUID, text string, cb StreamFunc) (*Reply, error) {
	if cb == nil {
		return nil, errors.New("stream callback is required")
	}
	return s.respond(ctx, userID, sessionID, text, cb)
}

func (s *Service) respond(ctx context.Context, userID, sessionID uuid.UUID, text string, cb StreamFunc) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	sess, isNew, err := s.resolveSession(ctx, userID, sessionID, text)
	if err != nil {
		return nil, err
	}

	// Load history and search recall in parallel. Buffered channels let
	// the goroutines finish even if we return early on a context error.
	type historyResult struct {
		msgs []*session.Message
		err  error
	}
	historyCh := make(chan historyResult, 1)
	recallCh := make(chan string, 1)

	go func() {
		msgs, herr := s.sessions.Messages(ctx, sess.ID, session.DefaultHistoryLimit)
		historyCh <- historyResult{msgs, herr}
	}()
	go func() {
		recallCh <- s.recallContext(ctx, userID, sess.ID, text)
	}()

	hr := <-historyCh
	if hr.err != nil {
		return nil, fmt.Errorf("loading history: %w", hr.err)
	}
	contextBlock := <-recallCh

	msgs := make([]gemini.Message, 0, len(hr.msgs)+1)
	for _, m := range hr.msgs {
		msgs = append(msgs, gemini.Message{Role: m.Role, Text: m.Content})
	}
	msgs = append(msgs, gemini.Message{Role: gemini.RoleUser, Text: text})

	var opts []gemini.GenOption
	if contextBlock != "" {
		opts = append(opts, gemini.WithContext(contextBlock))
	}

	replyText, err := s.generate(ctx, msgs, opts, cb)
	if err != nil {
		reply := &Reply{
			SessionID:  sess.ID,
			SessionNew: isNew,
			Title:      sess.Title,
			Text:       i18n.T(i18n.Lang(s.lang), "error.ai.unavailable"),
		}
		switch {
		case errors.Is(err, gemini.ErrAllKeysFailed):
			// Nothing is persisted; the user retries in the same session.
			return reply, err
		case errors.Is(err, gemini.ErrEmptyResponse):
			s.logger.Warn("model returned empty response", "session_id", sess.ID)
			replyText = reply.Text
		default:
			return nil, err
		}
	}

	var userMsg, modelMsg *session.Message
	err = database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := s.sessions.WithQuerier(tx)
		var txErr error
		if userMsg, txErr = st.AppendMessage(ctx, sess.ID, session.RoleUser, text); txErr != nil {
			return txErr
		}
		modelMsg, txErr = st.AppendMessage(ctx, sess.ID, session.RoleModel, replyText)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("saving exchange: %w", err)
	}

	reply := &Reply{
		SessionID:    sess.ID,
		SessionNew:   isNew,
		Title:        sess.Title,
		UserMessage:  userMsg,
		ModelMessage: modelMsg,
		Text:         replyText,
	}

	s.awardPoints(ctx, reply, userID, isNew)

	// Embedding outlives the request; App.Close waits on the group.
	if s.recall != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.recall.Remember(s.bgCtx, userID, *userMsg)
			s.recall.Remember(s.bgCtx, userID, *modelMsg)
		}()
	}

	if isNew {
		if title := s.generateTitle(ctx, text); title != "" && title != sess.Title {
			if renameErr := s.sessions.Rename(ctx, sess.ID, userID, title); renameErr != nil {
				s.logger.Warn("renaming new session", "session_id", sess.ID, "error", renameErr)
			} else {
				reply.Title = title
			}
		}
	}

	return reply, nil
}

// resolveSession loads the target session or starts a new one with a
// title derived from the first message.
func (s *Service) resolveSession(ctx context.Context, userID, sessionID uuid.UUID, text string) (*session.Session, bool, error) {
	if sessionID == uuid.Nil {
		sess, err := s.sessions.Create(ctx, userID, session.DeriveTitle(text))
		if err != nil {
			return nil, false, fmt.Errorf("creating session: %w", err)
		}
		return sess, true, nil
	}

	sess, err := s.sessions.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("resolving session: %w", err)
	}
	return sess, false, nil
}

// recallContext searches past conversations, returning "" on any
// failure. Recall never blocks a reply for long or fails it.
func (s *Service) recallContext(ctx context.Context, userID, sessionID uuid.UUID, text string) string {
	if s.recall == nil {
		return ""
	}

	searchCtx, cancel := context.WithTimeout(ctx, recallSearchTimeout)
	defer cancel()

	results, err := s.recall.Search(searchCtx, userID, sessionID, text, 0)
	if err != nil {
		s.logger.Debug("recall search failed", "error", err)
		return ""
	}
	return recall.ContextBlock(results)
}

// generate produces the reply text, streaming through cb when set.
func (s *Service) generate(ctx context.Context, msgs []gemini.Message, opts []gemini.GenOption, cb StreamFunc) (string, error) {
	if cb == nil {
		return s.ai.Generate(ctx, msgs, opts...)
	}

	var b strings.Builder
	for chunk, err := range s.ai.GenerateStream(ctx, msgs, opts...) {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(chunk)
		if cbErr := cb(ctx, chunk); cbErr != nil {
			return b.String(), fmt.Errorf("stream callback: %w", cbErr)
		}
	}
	return b.String(), nil
}

// awardPoints records gamification events for the exchange and folds
// the outcome into reply. Best-effort: failures are logged.
func (s *Service) awardPoints(ctx context.Context, reply *Reply, userID uuid.UUID, isNew bool) {
	if s.points == nil {
		return
	}

	record := func(kind gamification.Kind, refID *uuid.UUID) {
		delta, err := s.points.Record(ctx, userID, kind, refID)
		if err != nil {
			s.logger.Warn("recording points", "kind", kind, "error", err)
			return
		}
		reply.Points += delta.Points
		reply.NewBadges = append(reply.NewBadges, delta.NewBadges...)
		if delta.LeveledUp() {
			reply.LeveledUp = true
		}
	}

	if isNew {
		record(gamification.KindSessionStarted, &reply.SessionID)
	}
	record(gamification.KindChatMessage, &reply.UserMessage.ID)
}

var titlePrompt = `Crie um título curto, com no máximo %d palavras, para uma conversa de estudos que começa com esta mensagem.
Responda SOMENTE com o título, sem aspas e sem ponto final.

Mensagem: %s

Título:`

// generateTitle summarizes the first message into a short title on the
// chat key group. Returns "" on failure; the caller keeps the derived
// title.
func (s *Service) generateTitle(ctx context.Context, firstMessage string) string {
	titleCtx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	if runes := []rune(firstMessage); len(runes) > titleInputMaxRunes {
		firstMessage = string(runes[:titleInputMaxRunes]) + "..."
	}

	prompt := fmt.Sprintf(titlePrompt, titleMaxWords, firstMessage)
	raw, err := s.ai.Generate(titleCtx, []gemini.Message{{Role: gemini.RoleUser, Text: prompt}})
	if err != nil {
		s.logger.Debug("title generation failed", "error", err)
		return ""
	}
	return tidyTitle(raw)
}

// tidyTitle normalizes model output into a usable session title.
func tidyTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if nl := strings.IndexByte(title, '\n'); nl >= 0 {
		title = title[:nl]
	}
	title = strings.Trim(title, `"'“”`)
	title = strings.TrimRight(title, ".")
	title = strings.TrimSpace(title)

	words := strings.Fields(title)
	if len(words) > titleMaxWords {
		words = words[:titleMaxWords]
	}
	title = strings.Join(words, " ")

	if runes := []rune(title); len(runes) > session.MaxTitleLen {
		title = string(runes[:session.MaxTitleLen])
	}
	return title
}
