package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Koson7970/wood-strength-prediction-model/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of timbermatch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		fmt.Fprintln(cmd.OutOrStdout(), "Composite Timber Member Sizing Tool")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
