// Package commands provides the CLI commands for the pyback tool.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pyback [file.py]",
	Short: "Downgrade modern Python typing syntax for older runtimes",
	Long: `pyback rewrites modern Python typing syntax into equivalents that run
on older interpreters: union annotations, assignment expressions, type alias
statements and generic declarations become typing.Union, hoisted assignments,
typing.TypeVar and typing.Generic.

Usage:
  pyback [file.py]                Convert a file to stdout (shorthand)
  pyback convert -i in.py -o out  Convert with explicit input/output
  pyback build [-C dir] -o outdir Convert a whole project tree
  pyback version                  Print version`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Run convert by default if a .py file is provided as argument
	RunE: func(cmd *cobra.Command, args []string) error {
		if convertInput != "" {
			return runConvert(cmd, args)
		}

		if len(args) > 0 && strings.HasSuffix(args[0], ".py") {
			return runConvert(cmd, args)
		}

		if len(args) == 0 {
			return cmd.Help()
		}

		return fmt.Errorf("unknown command %q for \"pyback\"\nRun 'pyback --help' for usage", args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags mirroring convert so the shorthand form takes them too
	rootCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Path to the input .py file")
	rootCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Path to the output .py file")
	rootCmd.Flags().BoolVar(&convertInPlace, "in-place", false, "Rewrite the input file in place")
	rootCmd.Flags().BoolVar(&convertCheck, "check", false, "Exit non-zero if the file would change")
}
