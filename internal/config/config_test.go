package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 14, cfg.LookbackDays)
	assert.Equal(t, time.Hour, cfg.MetricPeriod)
	assert.Equal(t, 10.0, cfg.CPULowPercent)
	assert.Equal(t, 100.0, cfg.BurstHeadroom)
	assert.Equal(t, 500, cfg.MetricBatchSize)
	assert.Equal(t, 4, cfg.RegionConcurrency)
	assert.Equal(t, "table", cfg.Output)

	require.NoError(t, cfg.Validate())
}

func TestWindow(t *testing.T) {
	cfg := Default()
	cfg.LookbackDays = 14

	now := time.Date(2026, 8, 23, 10, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	start, end := cfg.Window(now)

	assert.Equal(t, time.UTC, end.Location())
	assert.Equal(t, 14*24*time.Hour, end.Sub(start))
	assert.True(t, end.Equal(now))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rightsizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lookback_days: 30
cpu_low_percent: 20
output: csv
output_path: /tmp/reports
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, 20.0, cfg.CPULowPercent)
	assert.Equal(t, "csv", cfg.Output)
	// Untouched keys keep their defaults.
	assert.Equal(t, 500, cfg.MetricBatchSize)
}

func TestLoadDurationStrings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rightsizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
metric_period: 2h
run_timeout: 5m
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.MetricPeriod)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
}

func TestLoadOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rightsizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lookback_days: 30\n"), 0o644))

	v := viper.New()
	v.Set("lookback_days", 7)
	v.Set("region_concurrency", 8)

	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.LookbackDays)
	assert.Equal(t, 8, cfg.RegionConcurrency)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), "/nonexistent/rightsizer.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_lookback", func(c *Config) { c.LookbackDays = 0 }},
		{"sub_minute_period", func(c *Config) { c.MetricPeriod = time.Second }},
		{"zero_threshold", func(c *Config) { c.CPULowPercent = 0 }},
		{"threshold_above_100", func(c *Config) { c.CPULowPercent = 150 }},
		{"negative_headroom", func(c *Config) { c.BurstHeadroom = -1 }},
		{"batch_above_cap", func(c *Config) { c.MetricBatchSize = 501 }},
		{"zero_batch", func(c *Config) { c.MetricBatchSize = 0 }},
		{"zero_concurrency", func(c *Config) { c.RegionConcurrency = 0 }},
		{"bad_output", func(c *Config) { c.Output = "pdf" }},
		{"sheets_without_key", func(c *Config) { c.Output = "sheets" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateSheetsConfigured(t *testing.T) {
	cfg := Default()
	cfg.Output = "sheets"
	cfg.SheetKey = "1abc"
	cfg.CredentialsSecret = "rightsizer/google-sa"

	assert.NoError(t, cfg.Validate())
}
