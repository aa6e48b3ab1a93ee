package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/web"
)

// Server timeouts. The write timeout must outlast the longest SSE
// stream, which the chat handler caps at five minutes.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 10 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: short("cli.serve.short"),
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.AI.RequireKeys(); err != nil {
		return err
	}
	if err := cfg.Server.RequireSecrets(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close application", "error", err)
		}
	}()

	srv, err := web.NewServer(web.Config{
		Logger:       logger.With("component", "web"),
		Pool:         a.Pool,
		Chat:         a.Chat,
		Sessions:     a.Sessions,
		MindMaps:     a.MindMaps,
		Resources:    a.Resources,
		Points:       a.Points,
		Lang:         i18n.Default(),
		CookieSecret: cfg.Server.CookieSecret,
		CSRFSecret:   cfg.Server.CSRFSecret,
		Dev:          cfg.Server.Dev,
		TrustProxy:   cfg.Server.TrustProxy,
		Tracing:      cfg.Telemetry.Enabled,
	})
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	logger.Info("mentora listening", "addr", cfg.Server.Addr(), "version", AppVersion)

	select {
	case <-ctx.Done():
		logger.Info("shutting down web server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	}
}
