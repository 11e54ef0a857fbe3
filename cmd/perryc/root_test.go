package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteLegacyArgsInsertsCompile(t *testing.T) {
	assert.Equal(t, []string{"compile", "index.ts", "-o", "out"}, rewriteLegacyArgs([]string{"index.ts", "-o", "out"}))
}

func TestRewriteLegacyArgsLeavesSubcommandAlone(t *testing.T) {
	assert.Equal(t, []string{"check", "index.ts"}, rewriteLegacyArgs([]string{"check", "index.ts"}))
}

func TestRewriteLegacyArgsLeavesFlagFirstAlone(t *testing.T) {
	assert.Equal(t, []string{"--format", "json", "check", "index.ts"}, rewriteLegacyArgs([]string{"--format", "json", "check", "index.ts"}))
}

func TestRewriteLegacyArgsEmpty(t *testing.T) {
	assert.Empty(t, rewriteLegacyArgs(nil))
}

func TestInitWritesConfigAndStub(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	code := run([]string{"init", "demo"})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "perry.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "demo"`)

	_, err = os.Stat(filepath.Join(dir, "index.ts"))
	require.NoError(t, err)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	require.Equal(t, 0, run([]string{"init"}))
	assert.Equal(t, 1, run([]string{"init"}))
}

func TestExplainKnownCode(t *testing.T) {
	assert.Equal(t, 0, run([]string{"explain", "R001"}))
}

func TestExplainUnknownCode(t *testing.T) {
	assert.Equal(t, 1, run([]string{"explain", "Z999"}))
}

func TestDoctorReportsMissingRuntime(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	assert.Equal(t, 1, run([]string{"doctor"}))
}
