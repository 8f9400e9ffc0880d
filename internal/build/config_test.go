package build_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyback/internal/build"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := build.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.Src)
	assert.Empty(t, cfg.Exclude)
	assert.Empty(t, cfg.BuildBackend)
}

func TestLoadConfigMissingTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[project]\nname = \"demo\"\n")

	cfg, err := build.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.Src)
}

func TestLoadConfigFullTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", `
[tool.pyback]
build-backend = "setuptools.build_meta"
post-build-editable = "demo.hooks:editable"
post-build-wheel = "demo.hooks:wheel"
src = ["src", "tools"]
exclude = ["*_generated.py"]
`)

	cfg, err := build.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "setuptools.build_meta", cfg.BuildBackend)
	assert.Equal(t, "demo.hooks:editable", cfg.PostBuildEditable)
	assert.Equal(t, "demo.hooks:wheel", cfg.PostBuildWheel)
	assert.Equal(t, []string{"src", "tools"}, cfg.Src)
	assert.Equal(t, []string{"*_generated.py"}, cfg.Exclude)
}

func TestLoadConfigRejectsBrokenToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.pyback\nsrc = 1\n")

	_, err := build.LoadConfig(dir)
	assert.Error(t, err)
}
