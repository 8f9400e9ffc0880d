package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information - can be set at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pyback",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pyback version %s\n", Version)
		if GitCommit != "unknown" {
			fmt.Printf("  Git commit: %s\n", GitCommit)
		}
		if BuildDate != "unknown" {
			fmt.Printf("  Build date: %s\n", BuildDate)
		}
	},
}
