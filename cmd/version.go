package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Build metadata, set via -ldflags at release time.
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: short("cli.version.short"),
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, i18n.Tf(i18n.Default(), "app.version", AppVersion))
	fmt.Fprintf(out, "build: %s (%s)\n", BuildTime, GitCommit)
}
