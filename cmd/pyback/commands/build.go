package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyback/internal/build"
)

var (
	buildDir     string
	buildOutput  string
	buildVerbose bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Convert a whole project tree",
	Long: `Build converts every Python source file of a project into an output
directory, preserving the relative layout.

Sources are discovered under the roots listed in the [tool.pyback] table of
pyproject.toml (the project root by default); gitignored files and exclude
patterns are skipped. A file that fails to convert produces no output and
fails the build.

Examples:
  pyback build -o dist              # Convert current directory into dist/
  pyback build -C ./proj -o ./out   # Convert a specific project
  pyback build -o dist -v           # Verbose output`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildDir, "chdir", "C", ".", "Project directory")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Verbose output")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildOutput == "" {
		return fmt.Errorf("an output directory is required (-o)")
	}

	projectDir, err := filepath.Abs(buildDir)
	if err != nil {
		return err
	}
	outDir, err := filepath.Abs(buildOutput)
	if err != nil {
		return err
	}

	builder, err := build.NewBuilder(projectDir, buildVerbose)
	if err != nil {
		return err
	}

	written, err := builder.Build(outDir)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Converted %d file(s) into %s\n", len(written), outDir)
	return nil
}
