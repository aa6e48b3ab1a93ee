package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/db"
	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/config"
	"github.com/mentora-app/mentora/internal/database"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/observability"
	"github.com/mentora-app/mentora/internal/recall"
	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/session"
)

// Setup builds the application in dependency order. On error everything
// already initialized is released before returning.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.flushTraces = provideTracing(ctx, cfg, logger)

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	a.Sessions = session.New(pool, logger.With("component", "session"))
	a.Points = gamification.New(pool, logger.With("component", "gamification"))

	resLogger := logger.With("component", "resource")
	reader := resource.NewReader(nil, resLogger)
	a.Resources = resource.NewService(reader, resource.NewCrawler(reader, resLogger),
		resource.NewStore(pool, resLogger), a.Points, resLogger)

	// Lifecycle for async embedding work: outlives requests, stops on Close.
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancel = cancel

	if cfg.AI.HasKeys() {
		ai, err := provideAI(cfg, logger)
		if err != nil {
			return nil, err
		}
		a.AI = ai
		a.Recall = recall.New(pool, ai, logger.With("component", "recall"))

		chatSvc, err := chat.New(chat.Config{
			AI:            ai,
			Pool:          pool,
			Sessions:      a.Sessions,
			Recall:        a.Recall,
			Points:        a.Points,
			Logger:        logger.With("component", "chat"),
			Lang:          cfg.Language,
			BackgroundCtx: bgCtx,
			WG:            &a.bg,
		})
		if err != nil {
			return nil, err
		}
		a.Chat = chatSvc

		a.MindMaps = mindmap.NewService(ai,
			mindmap.NewStore(pool, logger.With("component", "mindmap")),
			a.Points, logger.With("component", "mindmap"))
	}

	return a, nil
}

// provideTracing never blocks startup: a broken exporter logs a warning
// and the process runs with tracing off.
func provideTracing(ctx context.Context, cfg *config.Config, logger *slog.Logger) func(context.Context) error {
	flush, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Telemetry.Environment,
	}, logger)
	if err != nil {
		logger.Warn("creating trace exporter, tracing disabled", "error", err)
		return nil
	}
	return flush
}

// provideDBPool migrates the schema, then opens and pings the pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.Database.URL); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database.Connect(ctx, cfg.Database.URL)
}

// provideAI builds the rotating Gemini client from the configured key
// groups.
func provideAI(cfg *config.Config, logger *slog.Logger) (*gemini.Client, error) {
	return gemini.NewClient(gemini.Config{
		Model:             cfg.AI.Model,
		EmbeddingModel:    cfg.AI.EmbeddingModel,
		SystemInstruction: cfg.AI.SystemInstruction,
		Temperature:       cfg.AI.Temperature,
		MaxOutputTokens:   cfg.AI.MaxOutputTokens,
		ChatKeys:          cfg.AI.ChatKeys,
		MindMapKeys:       cfg.AI.MindMapKeys,
		BaseURL:           cfg.AI.BaseURL,
		Logger:            logger.With("component", "gemini"),
	})
}
