package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: short("cli.stats.short"),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	stats, err := a.Points.Stats(ctx, userID)
	if err != nil {
		return err
	}
	badges, err := a.Points.Badges(ctx, userID)
	if err != nil {
		return err
	}

	lang := i18n.Default()
	out := cmd.OutOrStdout()
	level := gamification.LevelFor(stats.Points)

	fmt.Fprintln(out, i18n.T(lang, "stats.title"))
	fmt.Fprintf(out, "%s: %s · %d %s\n",
		i18n.T(lang, "stats.level"), level.Name(lang), stats.Points, i18n.T(lang, "stats.points"))
	fmt.Fprintf(out, "%s: %s\n",
		i18n.T(lang, "stats.streak"), i18n.Tf(lang, "stats.streak.days", stats.CurrentStreak))
	if level.Next >= 0 {
		next := gamification.LevelFor(level.Next)
		fmt.Fprintln(out, i18n.Tf(lang, "stats.next.level", level.Next-stats.Points, next.Name(lang)))
	} else {
		fmt.Fprintln(out, i18n.T(lang, "stats.max.level"))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, i18n.T(lang, "stats.badges"))
	if len(badges) == 0 {
		fmt.Fprintln(out, i18n.T(lang, "stats.badges.empty"))
		return nil
	}
	for _, b := range badges {
		fmt.Fprintf(out, "  %s · %s\n", b.ID.Name(lang), b.ID.Description(lang))
	}
	return nil
}
