package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/i18n"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: short("cli.sessions.short"),
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: short("cli.sessions.list.short"),
	RunE:  runSessionsList,
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: short("cli.sessions.rm.short"),
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsRm,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsRmCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
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

	sessions, err := a.Sessions.List(ctx, userID, true, 100, 0)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.Default(), "cli.sessions.empty"))
		return nil
	}

	current := activeSession()
	for _, s := range sessions {
		marker := " "
		switch {
		case s.ID == current:
			marker = ">"
		case s.Archived:
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s\n",
			marker, s.ID, s.UpdatedAt.Format("2006-01-02 15:04"), s.Title)
	}
	return nil
}

func runSessionsRm(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", args[0], err)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
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

	if err := a.Sessions.Delete(ctx, id, userID); err != nil {
		return err
	}
	if id == activeSession() {
		forgetSession()
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.Default(), "cli.sessions.deleted"))
	return nil
}
