package app

import (
	"regexp"

	"depscope/internal/core/config"
	"depscope/internal/engine/deps"
)

// buildFilter translates the validated filter options into a frozen
// deps.Filter. Without any explicit option the default policy applies:
// same-package and same-archive dependencies are dropped.
func buildFilter(cfg config.Filter, modulePackages func(string) []string) (*deps.Filter, error) {
	if !cfg.Explicit() {
		return deps.Default(), nil
	}

	b := deps.NewBuilder()

	if cfg.Regex != "" {
		p, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, err
		}
		b.Regex(p)
	}
	b.Packages(cfg.Packages)
	for _, name := range cfg.Requires {
		b.Requires(name, modulePackages(name))
	}
	if cfg.FilterPattern != "" {
		p, err := regexp.Compile(cfg.FilterPattern)
		if err != nil {
			return nil, err
		}
		b.FilterPattern(p)
	}
	if cfg.SamePackage != nil || cfg.SameArchive != nil {
		b.Filter(cfg.SamePackage != nil && *cfg.SamePackage,
			cfg.SameArchive != nil && *cfg.SameArchive)
	}
	b.FindInternals(cfg.Internals)
	if cfg.Include != "" {
		p, err := regexp.Compile(cfg.Include)
		if err != nil {
			return nil, err
		}
		b.IncludePattern(p)
	}
	if cfg.IncludeSystemModules != "" {
		p, err := regexp.Compile(cfg.IncludeSystemModules)
		if err != nil {
			return nil, err
		}
		b.IncludeSystemModules(p)
	}

	return b.Build(), nil
}
