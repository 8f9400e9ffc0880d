// Package build converts the Python sources of a project tree in bulk,
// driven by the project's pyproject.toml.
package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the project file the build configuration is read from.
const ConfigFile = "pyproject.toml"

// Config is the [tool.pyback] table of pyproject.toml. The packaging keys
// (BuildBackend and the post-build hooks) belong to the external packaging
// collaborators and are carried through untouched; the converter itself only
// consumes Src and Exclude.
type Config struct {
	// BuildBackend is the backend packaging metadata is delegated to.
	BuildBackend string `toml:"build-backend"`

	// PostBuildEditable is the hook reference run after an editable build.
	PostBuildEditable string `toml:"post-build-editable"`

	// PostBuildWheel is the hook reference run after a wheel build.
	PostBuildWheel string `toml:"post-build-wheel"`

	// Src lists the directories searched for .py files, relative to the
	// project root. Defaults to the project root itself.
	Src []string `toml:"src"`

	// Exclude lists path glob patterns, relative to the project root, whose
	// matches are skipped during discovery.
	Exclude []string `toml:"exclude"`
}

// DefaultConfig returns the configuration used when the project has no
// pyproject.toml or no [tool.pyback] table.
func DefaultConfig() *Config {
	return &Config{
		Src: []string{"."},
	}
}

type pyproject struct {
	Tool struct {
		Pyback Config `toml:"pyback"`
	} `toml:"tool"`
}

// LoadConfig reads the [tool.pyback] table from projectDir/pyproject.toml.
// A missing file or table is not an error: defaults apply.
func LoadConfig(projectDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	var pp pyproject
	if err := toml.Unmarshal(data, &pp); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFile, err)
	}

	cfg := pp.Tool.Pyback
	if len(cfg.Src) == 0 {
		cfg.Src = DefaultConfig().Src
	}
	return &cfg, nil
}
