package config

import "time"

type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Filter        Filter        `toml:"filter"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Scan struct {
	Roots         []string `toml:"roots"`
	Include       []string `toml:"include"`
	Exclude       []string `toml:"exclude"`
	Workers       int      `toml:"workers"`
	RatePerSecond float64  `toml:"rate_per_second"`
	Burst         int      `toml:"burst"`
}

// Filter mirrors the command-line filter options. SamePackage and
// SameArchive are pointers so "unset" is distinguishable from "false":
// when no filter option is given at all, the default policy excludes
// both same-package and same-archive dependencies.
type Filter struct {
	Regex                string   `toml:"regex"`
	Packages             []string `toml:"packages"`
	Requires             []string `toml:"requires"`
	FilterPattern        string   `toml:"filter_pattern"`
	SamePackage          *bool    `toml:"same_package"`
	SameArchive          *bool    `toml:"same_archive"`
	Internals            bool     `toml:"internals"`
	Include              string   `toml:"include"`
	IncludeSystemModules string   `toml:"include_system_modules"`
}

// Explicit reports whether any filter option was configured. Without
// one the driver installs the default policy.
func (f Filter) Explicit() bool {
	return f.Regex != "" || len(f.Packages) > 0 || len(f.Requires) > 0 ||
		f.FilterPattern != "" || f.SamePackage != nil || f.SameArchive != nil ||
		f.Internals || f.Include != "" || f.IncludeSystemModules != ""
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Keep    int    `toml:"keep"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}
