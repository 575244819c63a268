package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable the scanner components need. It is built
// once at startup and threaded explicitly through the run; nothing reads
// ambient process state after this point.
type Config struct {
	// AWS session
	Profile string `yaml:"profile,omitempty" mapstructure:"profile"`
	Region  string `yaml:"region,omitempty" mapstructure:"region"` // base region for discovery calls

	// Metric window
	LookbackDays int           `yaml:"lookback_days" mapstructure:"lookback_days"`
	MetricPeriod time.Duration `yaml:"metric_period" mapstructure:"metric_period"`

	// Classification thresholds
	CPULowPercent float64 `yaml:"cpu_low_percent" mapstructure:"cpu_low_percent"`
	BurstHeadroom float64 `yaml:"burst_headroom" mapstructure:"burst_headroom"`

	// Throughput limits
	MetricBatchSize   int           `yaml:"metric_batch_size" mapstructure:"metric_batch_size"`
	RegionConcurrency int           `yaml:"region_concurrency" mapstructure:"region_concurrency"`
	RunTimeout        time.Duration `yaml:"run_timeout" mapstructure:"run_timeout"`

	// Output
	Output     string `yaml:"output" mapstructure:"output"` // table, json, csv, sheets
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`

	// Google Sheets sink
	SheetKey          string `yaml:"sheet_key,omitempty" mapstructure:"sheet_key"`
	CredentialsSecret string `yaml:"credentials_secret,omitempty" mapstructure:"credentials_secret"`

	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// Default returns the documented defaults: a 14-day hourly window, the
// 10% low-CPU line, 100 credits of burst headroom and CloudWatch's
// 500-query GetMetricData cap.
func Default() *Config {
	return &Config{
		LookbackDays:      14,
		MetricPeriod:      time.Hour,
		CPULowPercent:     10,
		BurstHeadroom:     100,
		MetricBatchSize:   500,
		RegionConcurrency: 4,
		RunTimeout:        10 * time.Minute,
		Output:            "table",
		OutputPath:        "report",
	}
}

// Window returns the trailing lookback range ending now.
func (c *Config) Window(now time.Time) (start, end time.Time) {
	end = now.UTC()
	return end.Add(-time.Duration(c.LookbackDays) * 24 * time.Hour), end
}

// Load builds the effective config: defaults, then an optional yaml file,
// then RIGHTSIZER_* environment variables and set flags via viper. Keys
// already set on v (flags, env) are never overwritten by the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		for key, value := range raw {
			if !v.IsSet(key) {
				v.Set(key, value)
			}
		}
	}

	applyOverrides(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(v *viper.Viper, cfg *Config) {
	for key, set := range map[string]func(){
		"profile":            func() { cfg.Profile = v.GetString("profile") },
		"region":             func() { cfg.Region = v.GetString("region") },
		"lookback_days":      func() { cfg.LookbackDays = v.GetInt("lookback_days") },
		"metric_period":      func() { cfg.MetricPeriod = v.GetDuration("metric_period") },
		"cpu_low_percent":    func() { cfg.CPULowPercent = v.GetFloat64("cpu_low_percent") },
		"burst_headroom":     func() { cfg.BurstHeadroom = v.GetFloat64("burst_headroom") },
		"metric_batch_size":  func() { cfg.MetricBatchSize = v.GetInt("metric_batch_size") },
		"region_concurrency": func() { cfg.RegionConcurrency = v.GetInt("region_concurrency") },
		"run_timeout":        func() { cfg.RunTimeout = v.GetDuration("run_timeout") },
		"output":             func() { cfg.Output = v.GetString("output") },
		"output_path":        func() { cfg.OutputPath = v.GetString("output_path") },
		"sheet_key":          func() { cfg.SheetKey = v.GetString("sheet_key") },
		"credentials_secret": func() { cfg.CredentialsSecret = v.GetString("credentials_secret") },
		"verbose":            func() { cfg.Verbose = v.GetBool("verbose") },
	} {
		if v.IsSet(key) {
			set()
		}
	}
}

// Validate rejects configurations the run could not honor.
func (c *Config) Validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", c.LookbackDays)
	}
	if c.MetricPeriod < time.Minute {
		return fmt.Errorf("metric_period must be at least one minute, got %s", c.MetricPeriod)
	}
	if c.CPULowPercent <= 0 || c.CPULowPercent > 100 {
		return fmt.Errorf("cpu_low_percent must be in (0, 100], got %g", c.CPULowPercent)
	}
	if c.BurstHeadroom < 0 {
		return fmt.Errorf("burst_headroom must not be negative, got %g", c.BurstHeadroom)
	}
	if c.MetricBatchSize <= 0 || c.MetricBatchSize > 500 {
		return fmt.Errorf("metric_batch_size must be in [1, 500], got %d", c.MetricBatchSize)
	}
	if c.RegionConcurrency <= 0 {
		return fmt.Errorf("region_concurrency must be positive, got %d", c.RegionConcurrency)
	}
	switch c.Output {
	case "table", "json", "csv", "sheets":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.Output == "sheets" && (c.SheetKey == "" || c.CredentialsSecret == "") {
		return fmt.Errorf("sheets output requires sheet_key and credentials_secret")
	}
	return nil
}
