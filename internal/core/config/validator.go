package config

import (
	"fmt"
	"regexp"

	"github.com/gobwas/glob"
)

// Malformed patterns are a caller-side fault and must surface here,
// at load time, before the filter builder ever runs.
func validateFilter(cfg *Config) error {
	for name, pattern := range map[string]string{
		"filter.regex":                  cfg.Filter.Regex,
		"filter.filter_pattern":         cfg.Filter.FilterPattern,
		"filter.include":                cfg.Filter.Include,
		"filter.include_system_modules": cfg.Filter.IncludeSystemModules,
	} {
		if pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%s: invalid regular expression %q: %w", name, pattern, err)
		}
	}
	return nil
}

func validateScan(cfg *Config) error {
	for _, patterns := range [][]string{cfg.Scan.Include, cfg.Scan.Exclude} {
		for _, pattern := range patterns {
			if _, err := glob.Compile(pattern); err != nil {
				return fmt.Errorf("scan: invalid glob %q: %w", pattern, err)
			}
		}
	}
	if cfg.Scan.RatePerSecond < 0 {
		return fmt.Errorf("scan.rate_per_second must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case "summary", "verbose", "dot", "csv":
		return nil
	default:
		return fmt.Errorf("output.format %q is not one of summary, verbose, dot, csv", cfg.Output.Format)
	}
}
