package deps

import (
	"regexp"

	"depscope/internal/engine/archive"
)

// Builder accumulates filter criteria and freezes them into a Filter.
// Setters perform no validation: patterns arrive pre-compiled, and a
// nil pattern or empty package set simply means "not configured".
type Builder struct {
	regex                *regexp.Regexp
	excludePattern       *regexp.Regexp
	filterSamePackage    bool
	filterSameArchive    bool
	findInternals        bool
	includePattern       *regexp.Regexp
	includeSystemModules *regexp.Regexp
	requires             map[string]bool
	targetPackages       map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{
		requires:       make(map[string]bool),
		targetPackages: make(map[string]bool),
	}
}

// Regex sets the target-match expression. When both a regex and target
// packages are supplied, the regex wins.
func (b *Builder) Regex(p *regexp.Regexp) *Builder {
	b.regex = p
	return b
}

// Packages adds to the target package set.
func (b *Builder) Packages(names []string) *Builder {
	for _, name := range names {
		if name != "" {
			b.targetPackages[name] = true
		}
	}
	return b
}

// FilterPattern sets the exclusion expression evaluated against target
// package names.
func (b *Builder) FilterPattern(p *regexp.Regexp) *Builder {
	b.excludePattern = p
	return b
}

// Filter toggles same-package and same-archive exclusion together.
func (b *Builder) Filter(samePackage, sameArchive bool) *Builder {
	b.filterSamePackage = samePackage
	b.filterSameArchive = sameArchive
	return b
}

// Requires records a required module and folds its packages into the
// target package set.
func (b *Builder) Requires(name string, packages []string) *Builder {
	if name != "" {
		b.requires[name] = true
	}
	return b.Packages(packages)
}

// FindInternals toggles internal-API detection mode.
func (b *Builder) FindInternals(v bool) *Builder {
	b.findInternals = v
	return b
}

// IncludePattern sets the class include expression.
func (b *Builder) IncludePattern(p *regexp.Regexp) *Builder {
	b.includePattern = p
	return b
}

// IncludeSystemModules sets the system-module include expression. An
// explicit pattern always wins over the default derived from required
// module names, regardless of the order setters were called in.
func (b *Builder) IncludeSystemModules(p *regexp.Regexp) *Builder {
	b.includeSystemModules = p
	return b
}

// Build freezes the accumulated criteria. The system-module include
// default is decided here, once: requiring a module in a reserved
// platform namespace implies its system module must stay in scope, so
// the reserved-namespace pattern is installed unless the caller set an
// explicit one.
func (b *Builder) Build() *Filter {
	var target targetMatcher
	switch {
	case b.regex != nil:
		target = regexMatcher{pattern: anchored(b.regex)}
	case len(b.targetPackages) > 0:
		pkgs := make(map[string]bool, len(b.targetPackages))
		for name := range b.targetPackages {
			pkgs[name] = true
		}
		target = packageMatcher{packages: pkgs}
	}

	includeSystem := b.includeSystemModules
	if includeSystem == nil {
		for name := range b.requires {
			if archive.IsSystemModuleName(name) {
				includeSystem = archive.SystemModulePattern
				break
			}
		}
	}

	requires := make(map[string]bool, len(b.requires))
	for name := range b.requires {
		requires[name] = true
	}

	return &Filter{
		target:               target,
		excludePattern:       anchored(b.excludePattern),
		filterSamePackage:    b.filterSamePackage,
		filterSameArchive:    b.filterSameArchive,
		findInternals:        b.findInternals,
		includePattern:       anchored(b.includePattern),
		includeSystemModules: anchored(includeSystem),
		requires:             requires,
	}
}
