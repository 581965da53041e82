package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches the working directory to a fresh temp dir for the
// duration of the test. Viper resolves config paths relative to it.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func TestLoadDefaultsWhenNoConfigFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "coverage/lcov.info", cfg.Input)
	assert.Equal(t, "main", cfg.BaseRef)
	assert.Equal(t, "lib", cfg.SourceDir)
	assert.Equal(t, ".dart", cfg.SourceExt)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ModifiedOnly)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, "SMART_COVERAGE_API_KEY", cfg.AI.APIKeyEnv)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	content := `
input: build/lcov.info
base_ref: origin/develop
modified_only: true
source_dir: src
source_ext: .ts
log_level: debug
output:
  html_dir: coverage_html
  json_path: coverage.json
ai:
  enabled: true
  provider: deepseek
  model: deepseek-chat
  endpoint: https://api.deepseek.com/v1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smart_coverage.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "build/lcov.info", cfg.Input)
	assert.Equal(t, "origin/develop", cfg.BaseRef)
	assert.True(t, cfg.ModifiedOnly)
	assert.Equal(t, "src", cfg.SourceDir)
	assert.Equal(t, ".ts", cfg.SourceExt)
	assert.Equal(t, "coverage_html", cfg.Output.HTMLDir)
	assert.Equal(t, "coverage.json", cfg.Output.JSONPath)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "deepseek", cfg.AI.Provider)
	assert.Equal(t, "deepseek-chat", cfg.AI.Model)
}

func TestLoadFromConfigsSubdirectory(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0755))
	content := "base_ref: release\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "smart_coverage.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.BaseRef)
	// Unset keys keep their defaults.
	assert.Equal(t, "coverage/lcov.info", cfg.Input)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "smart_coverage.yaml"), []byte("input: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}
