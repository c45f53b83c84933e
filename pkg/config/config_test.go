package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Launch.Headless)
	assert.Equal(t, "1280x720", cfg.Launch.Viewport)
	assert.Empty(t, cfg.Connect.CDPEndpoint)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
connect:
  cdp_endpoint: http://127.0.0.1:9222
origins:
  blocked:
    - "*.tracker.test"
output_dir: /tmp/pilot-out
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9222", cfg.Connect.CDPEndpoint)
	assert.Equal(t, []string{"*.tracker.test"}, cfg.Origins.Blocked)
	assert.Equal(t, "/tmp/pilot-out", cfg.OutputDir)
	// Untouched sections keep their defaults.
	assert.True(t, cfg.Launch.Headless)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "launch: [not a mapping"))
	assert.Error(t, err)
}

func TestValidate_RejectsBothEndpoints(t *testing.T) {
	cfg := Default()
	cfg.Connect.CDPEndpoint = "http://127.0.0.1:9222"
	cfg.Connect.WSEndpoint = "ws://127.0.0.1:4444"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_RejectsBadViewport(t *testing.T) {
	for _, viewport := range []string{"wide", "1280", "0x720", "-1x10", "1280xtall"} {
		cfg := Default()
		cfg.Launch.Viewport = viewport
		assert.Error(t, cfg.Validate(), "viewport %q should be rejected", viewport)
	}
}

func TestBrowserOptions(t *testing.T) {
	cfg := Default()
	cfg.Connect.WSEndpoint = "ws://127.0.0.1:4444"
	cfg.Connect.Headers = map[string]string{"Authorization": "Bearer t"}
	cfg.Launch.Viewport = "800x600"
	cfg.Origins.Allowed = []string{"https://example.com"}

	opts, err := cfg.BrowserOptions()
	require.NoError(t, err)

	assert.Equal(t, "ws://127.0.0.1:4444", opts.WSEndpoint)
	assert.Equal(t, "Bearer t", opts.WSHeaders["Authorization"])
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, 800, opts.Viewport.Width)
	assert.Equal(t, 600, opts.Viewport.Height)
	assert.Equal(t, []string{"https://example.com"}, opts.AllowedOrigins)
}
