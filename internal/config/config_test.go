package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 0, cfg.Server.Port)
	assert.Equal(t, 8000, cfg.Server.PortLow)
	assert.Equal(t, 8099, cfg.Server.PortHigh)
	assert.Equal(t, 35729, cfg.Server.ReloadPortLow)
	assert.False(t, cfg.IsPortPinned())
	assert.True(t, cfg.UsesDefaultTheme())
	assert.Contains(t, cfg.Watch.Extensions, ".md")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdserve.yaml")
	content := `
server:
  port: 9000
  verbose: true
fragments:
  header: _header.md
styling:
  stylesheet: theme.css
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.IsPortPinned())
	assert.True(t, cfg.Server.Verbose)
	assert.Equal(t, "_header.md", cfg.Fragments.Header)
	assert.Equal(t, "theme.css", cfg.Styling.Stylesheet)
	assert.False(t, cfg.UsesDefaultTheme())
	// Untouched sections keep their defaults
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdserve.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	// No config file: defaults
	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// mdserve.yaml present: picked up
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mdserve.yaml"), []byte("server:\n  port: 8123\n"), 0644))
	cfg, err = LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Server.Port)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdserve.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 8888
	cfg.Fragments.Footer = "_footer.md"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
