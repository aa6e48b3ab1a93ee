package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: short("cli.mcp.short"),
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// runMCP serves the Model Context Protocol over stdio until the client
// disconnects. Logs stay on stderr; stdout belongs to the protocol.
func runMCP(cmd *cobra.Command, _ []string) error {
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

	srv, err := mcp.NewServer(mcp.Config{
		Chat:     a.Chat,
		MindMaps: a.MindMaps,
		Sessions: a.Sessions,
		Points:   a.Points,
		UserID:   userID,
		Lang:     i18n.Default(),
		Version:  AppVersion,
		Logger:   logger.With("component", "mcp"),
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
