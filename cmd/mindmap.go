package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/mindmap"
)

var mindmapCmd = &cobra.Command{
	Use:   "mindmap [topic]",
	Short: short("cli.mindmap.short"),
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMindmap,
}

func init() {
	rootCmd.AddCommand(mindmapCmd)
}

func runMindmap(cmd *cobra.Command, args []string) error {
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

	topic := strings.TrimSpace(strings.Join(args, " "))
	mm, err := a.MindMaps.Generate(ctx, userID, topic)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), mindmap.ASCIITree(mm.Root))
	return nil
}
