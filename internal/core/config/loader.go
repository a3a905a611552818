package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML config file. A missing file is not an error: the
// tool is fully drivable from flags, so absence yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateFilter(&cfg); err != nil {
		return nil, err
	}
	if err := validateScan(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Scan.Include) == 0 {
		cfg.Scan.Include = []string{"*.jar"}
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Scan.Burst <= 0 {
		cfg.Scan.Burst = 1
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "summary"
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "depscope.db"
	}
	if cfg.History.Keep <= 0 {
		cfg.History.Keep = 100
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}
