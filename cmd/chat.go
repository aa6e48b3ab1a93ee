package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: short("cli.chat.short"),
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.AI.RequireKeys(); err != nil {
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

	userID, err := a.LocalUser(ctx)
	if err != nil {
		return err
	}

	return tui.Run(ctx, tui.Config{
		Chat:      a.Chat,
		Sessions:  a.Sessions,
		Points:    a.Points,
		UserID:    userID,
		SessionID: activeSession(),
		Lang:      i18n.Default(),
		Logger:    logger.With("component", "tui"),
		OnSession: rememberSession,
	})
}
