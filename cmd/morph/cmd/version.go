package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/morphium/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, commit, date := version.Info()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "morph %s (commit: %s, built: %s)\n", v, commit, date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
