package build

import (
	"fmt"
	"os"
	"path/filepath"

	"pyback/internal/converter"
	"pyback/pybackerr"
)

// Builder converts every discovered source file of a project into an output
// directory, preserving the relative layout. Conversion is total-or-fails:
// a file that cannot be converted produces no output at all, and its error
// is collected rather than aborting the remaining files.
type Builder struct {
	config     *Config
	converter  converter.Converter
	projectDir string
	verbose    bool
}

// NewBuilder creates a builder for the given project directory, loading its
// pyproject.toml configuration.
func NewBuilder(projectDir string, verbose bool) (*Builder, error) {
	cfg, err := LoadConfig(projectDir)
	if err != nil {
		return nil, err
	}
	return &Builder{
		config:     cfg,
		converter:  converter.New(),
		projectDir: projectDir,
		verbose:    verbose,
	}, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() *Config {
	return b.config
}

// Build converts all discovered files into outDir and returns the relative
// paths written. When any file fails, the returned error is a
// pybackerr.MultiError carrying one entry per failed file; files that
// converted cleanly are still written.
func (b *Builder) Build(outDir string) ([]string, error) {
	files, err := FindSources(b.projectDir, b.config)
	if err != nil {
		return nil, fmt.Errorf("discovering sources: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .py files found in %s", b.projectDir)
	}

	var written []string
	var failures []error
	for _, rel := range files {
		if err := b.buildFile(rel, outDir); err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", rel, err))
			continue
		}
		written = append(written, rel)
		if b.verbose {
			fmt.Printf("  %s\n", rel)
		}
	}

	if len(failures) > 0 {
		return written, pybackerr.NewMultiError(failures)
	}
	return written, nil
}

func (b *Builder) buildFile(rel, outDir string) error {
	src, err := os.ReadFile(filepath.Join(b.projectDir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}

	out, err := b.converter.Convert(string(src))
	if err != nil {
		return err
	}

	dst := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(out), 0644)
}
