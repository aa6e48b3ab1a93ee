package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/i18n"
)

var (
	importDepth    int
	importMaxPages int
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: short("cli.resources.short"),
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: short("cli.resources.list.short"),
	RunE:  runResourcesList,
}

var resourcesImportCmd = &cobra.Command{
	Use:   "import [url]",
	Short: short("cli.resources.import.short"),
	Args:  cobra.ExactArgs(1),
	RunE:  runResourcesImport,
}

func init() {
	resourcesImportCmd.Flags().IntVar(&importDepth, "depth", 1, "how many link levels to follow")
	resourcesImportCmd.Flags().IntVar(&importMaxPages, "max-pages", 10, "page limit for one import")
	resourcesCmd.AddCommand(resourcesListCmd, resourcesImportCmd)
	rootCmd.AddCommand(resourcesCmd)
}

func runResourcesList(cmd *cobra.Command, _ []string) error {
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

	resources, err := a.Resources.List(ctx, userID, 100)
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.Default(), "cli.resources.empty"))
		return nil
	}
	for _, r := range resources {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n  %s\n", r.CreatedAt.Format("2006-01-02"), title, r.URL)
	}
	return nil
}

func runResourcesImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	// Crawling can take a while; let ctrl-c stop it cleanly.
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

	n, err := a.Resources.Import(ctx, userID, args[0], importDepth, importMaxPages)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.Tf(i18n.Default(), "cli.import.done", n, args[0]))
	return nil
}
