package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.miro.com/v2", cfg.Miro.BaseURL)
	assert.Equal(t, float64(4), cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 3, cfg.RateLimit.MaxRetries)
	assert.Equal(t, "./svgs", cfg.Output.Directory)
	assert.Equal(t, 20*time.Second, cfg.Download.Timeout)
	assert.False(t, cfg.Download.IncludeDocuments)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) { c.Miro.Token = "tok" },
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "zero rate",
			mutate: func(c *Config) {
				c.Miro.Token = "tok"
				c.RateLimit.RequestsPerSecond = 0
			},
			wantErr: true,
		},
		{
			name: "negative retries",
			mutate: func(c *Config) {
				c.Miro.Token = "tok"
				c.RateLimit.MaxRetries = -1
			},
			wantErr: true,
		},
		{
			name: "empty output directory",
			mutate: func(c *Config) {
				c.Miro.Token = "tok"
				c.Output.Directory = ""
			},
			wantErr: true,
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Miro.Token = "tok"
				c.Logging.Level = "chatty"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
miro:
  token: file-token
rate_limit:
  requests_per_second: 2
output:
  directory: /tmp/out
download:
  include_documents: true
  url_mutations:
    - "format=export"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-token", cfg.Miro.Token)
	assert.Equal(t, float64(2), cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "/tmp/out", cfg.Output.Directory)
	assert.True(t, cfg.Download.IncludeDocuments)
	assert.Equal(t, []string{"format=export"}, cfg.Download.URLMutations)
	// Untouched fields keep their defaults
	assert.Equal(t, "https://api.miro.com/v2", cfg.Miro.BaseURL)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MIRO_ACCESS_TOKEN", "env-token")
	t.Setenv("MIROSVG_OUTPUT_DIR", "/tmp/env-out")
	t.Setenv("MIROSVG_REQUESTS_PER_SECOND", "1.5")
	t.Setenv("MIROSVG_INCLUDE_DOCUMENTS", "true")
	t.Setenv("MIROSVG_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-token", cfg.Miro.Token)
	assert.Equal(t, "/tmp/env-out", cfg.Output.Directory)
	assert.Equal(t, 1.5, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.Download.IncludeDocuments)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"token":        "flag-token",
		"output":       "/tmp/flag-out",
		"rate-limit":   2.0,
		"max-retries":  5,
		"timeout":      10 * time.Second,
		"include-docs": true,
	})

	assert.Equal(t, "flag-token", cfg.Miro.Token)
	assert.Equal(t, "/tmp/flag-out", cfg.Output.Directory)
	assert.Equal(t, 2.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RateLimit.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Download.Timeout)
	assert.True(t, cfg.Download.IncludeDocuments)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	cfg := DefaultConfig()
	cfg.Miro.Token = "round-trip"
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "round-trip", loaded.Miro.Token)
}
