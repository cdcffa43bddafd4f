package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "atr", cfg.Methodologies.Primary)
	assert.Equal(t, "zone_buffer", cfg.Methodologies.Fallback)
	assert.Equal(t, "America/New_York", cfg.Session.Timezone)
	assert.Equal(t, "15:30", cfg.Session.Cutoff)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing db path", func(c *Config) { c.Database.Path = "" }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"zero resolution", func(c *Config) { c.Batch.Resolution = 0 }},
		{"missing timezone", func(c *Config) { c.Session.Timezone = "" }},
		{"missing cutoff", func(c *Config) { c.Session.Cutoff = "" }},
		{"missing primary", func(c *Config) { c.Methodologies.Primary = "" }},
		{"missing fallback", func(c *Config) { c.Methodologies.Fallback = "" }},
		{"primary equals fallback", func(c *Config) { c.Methodologies.Fallback = c.Methodologies.Primary }},
		{"bad atr multiple", func(c *Config) { c.Methodologies.ATRStopMultiple = 0 }},
		{"bad zone buffer", func(c *Config) { c.Methodologies.ZoneBufferPct = -0.1 }},
		{"bad session atr window", func(c *Config) { c.Methodologies.SessionATRWindow = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/outcomes-test.db
batch:
  workers: 8
  resolution: 1
session:
  timezone: America/New_York
  cutoff: "15:30"
methodologies:
  primary: atr
  fallback: zone_buffer
  descriptive: [prior_bar]
  atr_stop_multiple: 1.5
  zone_buffer_pct: 0.05
  session_atr_window: 5
log:
  level: debug
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/outcomes-test.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 1.5, cfg.Methodologies.ATRStopMultiple)
	assert.Equal(t, []string{"prior_bar"}, cfg.Methodologies.Descriptive)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database": {"path": "/tmp/outcomes-test.db"},
		"batch": {"workers": 2, "resolution": 1}
	}`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	// Unset sections keep their defaults.
	assert.Equal(t, "atr", cfg.Methodologies.Primary)
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  workers: -1\n"), 0644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
