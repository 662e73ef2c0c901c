// Package config holds the collector's runtime configuration: defaults,
// an optional yaml file, and flag overrides applied by the entrypoint.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MDTrapaglia/status-page/internal/market"
)

// Duration is a time.Duration that unmarshals from yaml strings like "60s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`

	SampleInterval Duration `yaml:"sample_interval"`
	RecentWindow   Duration `yaml:"recent_window"`
	Retention      Duration `yaml:"retention"`
	APIMaxPoints   int      `yaml:"api_max_points"`
	FanMaxRPM      float64  `yaml:"fan_max_rpm"`

	DeviceURL     string   `yaml:"device_url"`
	DeviceTimeout Duration `yaml:"device_timeout"`

	ProbeTargets []string `yaml:"probe_targets"`
	ProbeTimeout Duration `yaml:"probe_timeout"`

	Coins []market.Coin `yaml:"coins"`
}

func Default() Config {
	return Config{
		Port:           8080,
		DataDir:        ".",
		SampleInterval: Duration(60 * time.Second),
		RecentWindow:   Duration(4 * time.Hour),
		Retention:      Duration(30 * 24 * time.Hour),
		APIMaxPoints:   2000,
		FanMaxRPM:      5000,
		DeviceTimeout:  Duration(5 * time.Second),
		ProbeTargets:   []string{"1.1.1.1:53", "8.8.8.8:53"},
		ProbeTimeout:   Duration(2 * time.Second),
		Coins: []market.Coin{
			{ID: "bitcoin", Name: "Bitcoin"},
			{ID: "ethereum", Name: "Ethereum"},
		},
	}
}

// Load returns the defaults overlaid with the yaml file at path. An empty
// path means defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.SampleInterval.Std() <= 0 {
		return fmt.Errorf("sample_interval must be positive")
	}
	if c.RecentWindow.Std() <= 0 || c.Retention.Std() <= 0 {
		return fmt.Errorf("recent_window and retention must be positive")
	}
	if c.RecentWindow.Std() > c.Retention.Std() {
		return fmt.Errorf("recent_window exceeds retention")
	}
	return nil
}

// HistoryLogPath is the full-history JSONL log location under the data dir.
func (c Config) HistoryLogPath() string { return filepath.Join(c.DataDir, "history.jsonl") }

// SessionStatePath is the session tracker's state file location.
func (c Config) SessionStatePath() string { return filepath.Join(c.DataDir, "session.json") }
