// Package analyzer aggregates accepted dependency edges into
// per-archive summaries. It runs after archive resolution, applying
// the archive-level filter to every edge.
package analyzer

import (
	"sort"

	"depscope/internal/engine/archive"
	"depscope/internal/engine/deps"
	"depscope/internal/shared/observability"
)

// Edge is a dependency with both endpoints resolved to their
// containing archives.
type Edge struct {
	Dep           deps.Dependency
	OriginArchive *archive.Archive
	TargetArchive *archive.Archive
}

// TargetCount is one outgoing archive dependency with its edge count.
type TargetCount struct {
	Archive *archive.Archive
	Count   int
}

// ArchiveSummary collapses an archive's accepted edges per target
// archive.
type ArchiveSummary struct {
	Archive *archive.Archive
	Targets []TargetCount
}

// Finding is one internal package with the classes referencing it,
// produced in internals mode only.
type Finding struct {
	Package string
	Classes []string
}

// Result is one aggregation pass. Accepted preserves every surviving
// edge for verbose output; Summaries are ordered by archive name.
// Findings is empty outside internals mode.
type Result struct {
	Summaries []ArchiveSummary
	Accepted  []Edge
	Findings  []Finding
	Seen      int
}

// Analyzer applies the archive-level filter and aggregates. It is
// stateless across Run calls.
type Analyzer struct {
	filter deps.ArchiveFilter
}

func New(filter deps.ArchiveFilter) *Analyzer {
	return &Analyzer{filter: filter}
}

// Run evaluates every edge independently and aggregates the survivors.
// Output ordering is deterministic: summaries and their targets sort
// by archive name, edges by origin then target location.
func (a *Analyzer) Run(edges []Edge) Result {
	res := Result{Seen: len(edges)}

	type key struct{ origin, target *archive.Archive }
	counts := make(map[key]int)
	byName := make(map[string]*archive.Archive)

	for _, e := range edges {
		if !a.filter.AcceptsArchive(e.Dep.Origin, e.OriginArchive, e.Dep.Target, e.TargetArchive) {
			observability.EdgesRejected.WithLabelValues(observability.StageArchive).Inc()
			continue
		}
		observability.EdgesAccepted.Inc()
		res.Accepted = append(res.Accepted, e)
		counts[key{e.OriginArchive, e.TargetArchive}]++
		byName[e.OriginArchive.Name()] = e.OriginArchive
	}

	sort.Slice(res.Accepted, func(i, j int) bool {
		if res.Accepted[i].Dep.Origin != res.Accepted[j].Dep.Origin {
			return res.Accepted[i].Dep.Origin < res.Accepted[j].Dep.Origin
		}
		return res.Accepted[i].Dep.Target < res.Accepted[j].Dep.Target
	})

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		origin := byName[name]
		summary := ArchiveSummary{Archive: origin}
		for k, n := range counts {
			if k.origin == origin {
				summary.Targets = append(summary.Targets, TargetCount{Archive: k.target, Count: n})
			}
		}
		sort.Slice(summary.Targets, func(i, j int) bool {
			return summary.Targets[i].Archive.Name() < summary.Targets[j].Archive.Name()
		})
		res.Summaries = append(res.Summaries, summary)
	}

	if fi, ok := a.filter.(interface{ FindsInternals() bool }); ok && fi.FindsInternals() {
		res.Findings = collectFindings(res.Accepted)
	}

	return res
}

// collectFindings groups surviving edges by target package. In
// internals mode every accepted edge is an internal-API use, so the
// grouping is the findings list.
func collectFindings(accepted []Edge) []Finding {
	byPkg := make(map[string]map[string]bool)
	for _, e := range accepted {
		pkg := e.Dep.Target.PackageName()
		if byPkg[pkg] == nil {
			byPkg[pkg] = make(map[string]bool)
		}
		byPkg[pkg][string(e.Dep.Origin)] = true
	}

	pkgs := make([]string, 0, len(byPkg))
	for pkg := range byPkg {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	out := make([]Finding, 0, len(pkgs))
	for _, pkg := range pkgs {
		classes := make([]string, 0, len(byPkg[pkg]))
		for cn := range byPkg[pkg] {
			classes = append(classes, cn)
		}
		sort.Strings(classes)
		out = append(out, Finding{Package: pkg, Classes: classes})
	}
	return out
}
