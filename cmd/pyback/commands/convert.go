package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pyback/internal/converter"
)

var (
	convertInput   string
	convertOutput  string
	convertInPlace bool
	convertCheck   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.py]",
	Short: "Convert a single Python file",
	Long: `Convert rewrites one Python source file, or stdin when no input is
given, and writes the result to stdout, a file, or back in place.

Examples:
  pyback convert main.py              # Output to stdout
  pyback convert -i main.py -o out.py # Output to file
  pyback convert --in-place main.py   # Rewrite the file
  pyback convert --check main.py      # Report whether it would change
  pyback main.py                      # Shorthand (same as convert)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Path to the input .py file")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Path to the output .py file")
	convertCmd.Flags().BoolVar(&convertInPlace, "in-place", false, "Rewrite the input file in place")
	convertCmd.Flags().BoolVar(&convertCheck, "check", false, "Exit non-zero if the file would change")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := convertInput
	if inputPath == "" && len(args) > 0 {
		inputPath = args[0]
	}

	if convertInPlace && inputPath == "" {
		return fmt.Errorf("--in-place requires an input file")
	}

	var source []byte
	var err error
	if inputPath == "" {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		source, err = os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
	}

	out, err := converter.New().Convert(string(source))
	if err != nil {
		if inputPath != "" {
			return fmt.Errorf("%s: %w", inputPath, err)
		}
		return err
	}

	if convertCheck {
		if out != string(source) {
			return fmt.Errorf("%s would be rewritten", displayName(inputPath))
		}
		return nil
	}

	switch {
	case convertInPlace:
		return os.WriteFile(inputPath, []byte(out), 0644)
	case convertOutput != "":
		return os.WriteFile(convertOutput, []byte(out), 0644)
	default:
		fmt.Print(out)
		return nil
	}
}

func displayName(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
