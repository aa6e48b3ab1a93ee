package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/db"
	"github.com/mentora-app/mentora/internal/i18n"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: short("cli.migrate.short"),
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// runMigrate applies pending migrations and exits. It talks to the
// database directly; no pool, no services, no AI credentials.
func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := db.Migrate(cfg.Database.URL); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.Default(), "cli.migrate.done"))
	return nil
}
