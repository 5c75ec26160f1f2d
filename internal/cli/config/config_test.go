package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "modules", cfg.ModulesDir)
	assert.Equal(t, "plugins", cfg.PluginsDir)
	assert.Equal(t, "export", cfg.ExportDir)
	assert.Equal(t, codegen.FormatYAML, cfg.OutputFormat())
	assert.False(t, cfg.UsageGuide)
	assert.Equal(t, "MIT", cfg.Defaults.License)
	assert.Equal(t, "sbx-default", cfg.Defaults.Contact)
	assert.Equal(t, "eng", cfg.Index.Language)
	assert.Empty(t, cfg.File)
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
modules_dir: sparv/modules
export_dir: /srv/metadata
format: json
usage_guide: true
workers: 4
defaults:
  license: CC-BY
  analysis_unit: token
index:
  enabled: true
  language: swe
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbxmeta.yaml"), []byte(content), 0o644))

	sub := filepath.Join(dir, "sparv", "modules")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, sub)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, codegen.FormatJSON, cfg.OutputFormat())
	assert.True(t, cfg.UsageGuide)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "CC-BY", cfg.Defaults.License)
	assert.Equal(t, "token", cfg.RecordDefaults().AnalysisUnit)
	assert.True(t, cfg.Index.Enabled)
	assert.Equal(t, "swe", cfg.Index.Language)

	resolvedFile, _ := filepath.EvalSymlinks(cfg.File)
	resolvedDir, _ := filepath.EvalSymlinks(dir)
	assert.Equal(t, filepath.Join(resolvedDir, "sbxmeta.yaml"), resolvedFile)

	assert.Equal(t, filepath.Join(cfg.Root, "sparv/modules"), cfg.Path(cfg.ModulesDir))
	assert.Equal(t, "/srv/metadata", cfg.Path(cfg.ExportDir))
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, t.TempDir())
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export_dir: out\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Path(cfg.ExportDir))
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SBXMETA_EXPORT_DIR", "from-env")
	t.Setenv("SBXMETA_DEFAULTS_LICENSE", "GPL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ExportDir)
	assert.Equal(t, "GPL", cfg.Defaults.License)
}

func TestContactDefaultsKeepCase(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := "defaults:\n  contact:\n    surname: Svensson\n    givenName: Anna\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbxmeta.yml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	contact := codegen.ExpandContact(cfg.RecordDefaults().Contact)
	assert.Equal(t, map[string]interface{}{"surname": "Svensson", "givenName": "Anna"}, contact)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad format", "format: xml\n", "format"},
		{"negative workers", "workers: -1\n", "workers"},
		{"bad unit", "defaults:\n  analysis_unit: word\n", "defaults.analysis_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sbxmeta.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
