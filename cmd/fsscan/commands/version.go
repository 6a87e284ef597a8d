package commands

import (
	"fmt"
	"github.com/agamayoga/fsscan/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number and commit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fsscan %s (commit %s)\n", version.Number(), version.Commit())
	},
}
