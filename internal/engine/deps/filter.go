package deps

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"depscope/internal/engine/archive"
)

// EdgeFilter is the per-edge stage, applied while class files are
// scanned. It must not consult archive or module data: the containing
// archive of a target class is generally unknown at scan time.
type EdgeFilter interface {
	Accepts(d Dependency) bool
}

// ArchiveFilter is the late stage, applied once every class's
// containing archive and module are resolved.
type ArchiveFilter interface {
	AcceptsArchive(origin Location, originArchive *archive.Archive, target Location, targetArchive *archive.Archive) bool
}

// Filter is the frozen result of a Builder. All predicates are pure
// functions of the receiver and their arguments, so one Filter may be
// shared by any number of goroutines.
type Filter struct {
	target               targetMatcher
	excludePattern       *regexp.Regexp
	filterSamePackage    bool
	filterSameArchive    bool
	findInternals        bool
	includePattern       *regexp.Regexp
	includeSystemModules *regexp.Regexp
	requires             map[string]bool
}

var (
	_ EdgeFilter    = (*Filter)(nil)
	_ ArchiveFilter = (*Filter)(nil)
)

// Default is the policy used when no filter option is given: drop
// same-package and same-archive dependencies, report everything else.
func Default() *Filter {
	return NewBuilder().Filter(true, true).Build()
}

// Accepts is the edge-level stage. Rules short-circuit in order:
// self-loops are dropped, then same-package edges (when configured),
// then edges whose target package matches the exclusion pattern, and
// finally the target matcher decides — or accepts by default when none
// is configured.
func (f *Filter) Accepts(d Dependency) bool {
	if d.Origin == d.Target {
		return false
	}

	pn := d.Target.PackageName()
	if f.filterSamePackage && d.Origin.PackageName() == pn {
		return false
	}

	if f.excludePattern != nil && f.excludePattern.MatchString(pn) {
		return false
	}

	if f.target != nil {
		return f.target.matches(d)
	}
	return true
}

// AcceptsArchive is the archive-level stage. In internals-detection
// mode an edge is reported only when it crosses an archive boundary
// into a non-exported package of a system module. Otherwise, when
// same-archive filtering is on, only boundary-crossing edges pass.
// Internals mode wins if both are configured.
func (f *Filter) AcceptsArchive(origin Location, originArchive *archive.Archive, target Location, targetArchive *archive.Archive) bool {
	if f.findInternals {
		mod := targetArchive.Module()
		return originArchive != targetArchive &&
			mod.IsSystem() && !mod.IsExported(target.PackageName())
	}
	if f.filterSameArchive {
		return originArchive != targetArchive
	}
	return true
}

// MatchesClass reports whether the class name matches the include
// pattern. No configured pattern means no restriction.
func (f *Filter) MatchesClass(name string) bool {
	if f.includePattern == nil {
		return true
	}
	return f.includePattern.MatchString(name)
}

// MatchesArchive reports whether the archive should be eagerly
// scanned. With an include pattern configured, the archive qualifies
// when any of its class entries matches it. Without one, the archive
// is a point of interest exactly when a target matcher is configured.
func (f *Filter) MatchesArchive(a *archive.Archive) bool {
	if f.includePattern != nil {
		for _, entry := range a.Entries() {
			cn, ok := archive.EntryToClassName(entry)
			if ok && f.MatchesClass(cn) {
				return true
			}
		}
		return false
	}
	return f.HasTargetFilter()
}

// IncludeModule reports whether the archive's module is in analysis
// scope. System modules are skipped by default; a configured
// include-system-modules pattern admits the ones it matches.
func (f *Filter) IncludeModule(a *archive.Archive) bool {
	mod := a.Module()
	return !mod.IsSystem() || (f.includeSystemModules != nil &&
		f.includeSystemModules.MatchString(mod.Name))
}

// HasTargetFilter reports whether a regex or package-set target
// matcher is configured.
func (f *Filter) HasTargetFilter() bool {
	return f.target != nil
}

// FindsInternals reports whether internal-API detection mode is on.
func (f *Filter) FindsInternals() bool {
	return f.findInternals
}

// HasIncludePattern reports whether any source-side include pattern is
// configured.
func (f *Filter) HasIncludePattern() bool {
	return f.includePattern != nil || f.includeSystemModules != nil
}

// Requires returns the accumulated required module names in sorted
// order. The set is diagnostic; no predicate consults it.
func (f *Filter) Requires() []string {
	out := make([]string, 0, len(f.requires))
	for name := range f.requires {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (f *Filter) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "include pattern: %v\n", f.includePattern)
	fmt.Fprintf(&b, "filter same archive: %v\n", f.filterSameArchive)
	fmt.Fprintf(&b, "filter same package: %v\n", f.filterSamePackage)
	fmt.Fprintf(&b, "requires: %v\n", f.Requires())
	return b.String()
}
