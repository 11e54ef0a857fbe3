package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesProjectAndBuildTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perry.toml")
	contents := `
[project]
name = "demo"
entry = "src/main.ts"

[build]
out_dir = "out"
opt_level = 2
`
	require.NoError(t, writeFile(path, contents))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, "src/main.ts", cfg.Project.Entry)
	assert.Equal(t, "out", cfg.Build.OutDir)
	assert.Equal(t, 2, cfg.Build.OptLevel)
}

func TestLoadRejectsMissingEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perry.toml")
	require.NoError(t, writeFile(path, "[project]\nname = \"demo\"\n"))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
