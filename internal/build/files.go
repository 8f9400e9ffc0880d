package build

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FindSources discovers the .py files to convert under the configured source
// roots. Paths are returned relative to projectDir, slash-separated, in
// walk order. Hidden directories, __pycache__ and, inside a git repository,
// anything matched by .gitignore are skipped.
func FindSources(projectDir string, cfg *Config) ([]string, error) {
	matcher, err := ignoreMatcher(projectDir)
	if err != nil {
		return nil, err
	}

	var files []string
	seen := make(map[string]bool)
	for _, root := range cfg.Src {
		rootDir := filepath.Join(projectDir, root)
		err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(projectDir, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel == "." {
					return nil
				}
				name := d.Name()
				if strings.HasPrefix(name, ".") || name == "__pycache__" {
					return filepath.SkipDir
				}
				if matcher != nil && matcher.Match(strings.Split(rel, "/"), true) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".py") {
				return nil
			}
			if excluded(cfg.Exclude, rel) {
				return nil
			}
			if matcher != nil && matcher.Match(strings.Split(rel, "/"), false) {
				return nil
			}
			if !seen[rel] {
				seen[rel] = true
				files = append(files, rel)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// ignoreMatcher builds a gitignore matcher for the project, or nil when the
// project is not a git repository.
func ignoreMatcher(projectDir string) (gitignore.Matcher, error) {
	if _, err := os.Stat(filepath.Join(projectDir, ".git")); err != nil {
		return nil, nil
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(projectDir), nil)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return gitignore.NewMatcher(patterns), nil
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, rel); err == nil && ok {
			return true
		}
		// also match against the basename so "*_pb2.py" style patterns
		// apply anywhere in the tree
		if ok, err := filepath.Match(p, filepath.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
