// Package app drives the analysis pipeline: archive discovery, filter
// construction, class scanning, aggregation, output, and run history.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"depscope/internal/core/config"
	"depscope/internal/data/history"
	"depscope/internal/engine/analyzer"
	"depscope/internal/engine/archive"
	"depscope/internal/engine/deps"
	"depscope/internal/shared/observability"
	"depscope/internal/shared/util"
	"depscope/internal/ui/report"
)

type App struct {
	Config  *config.Config
	Filter  *deps.Filter
	limiter *util.Limiter
	history *history.Store

	archives   []*archive.Archive
	classIndex map[string]*archive.Archive
	notFound   *archive.Archive

	classCount int
	edgesSeen  int
}

func New(cfg *config.Config) (*App, error) {
	// Flag overrides land after config.Load's validation, so the
	// output format is checked again here, before any analysis runs.
	if _, err := report.ForFormat(cfg.Output.Format); err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		limiter:  util.NewLimiter(cfg.Scan.RatePerSecond, cfg.Scan.Burst),
		notFound: archive.New("not found", nil),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.history = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// Run executes one full analysis pass. It is safe to call again after
// archives change; all per-run state is rebuilt.
func (a *App) Run(ctx context.Context) (analyzer.Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	start := time.Now()

	if err := a.discoverArchives(ctx); err != nil {
		return analyzer.Result{}, err
	}
	if err := a.buildFilter(); err != nil {
		return analyzer.Result{}, err
	}
	slog.Debug("filter configured", "requires", a.Filter.Requires(),
		"target_filter", a.Filter.HasTargetFilter(), "include_pattern", a.Filter.HasIncludePattern())

	edges, err := a.scanArchives(ctx)
	if err != nil {
		return analyzer.Result{}, err
	}

	res := a.analyze(ctx, edges)

	observability.AnalysisDuration.WithLabelValues("run").Observe(time.Since(start).Seconds())
	slog.Info("analysis complete",
		"archives", len(a.archives),
		"classes", a.classCount,
		"edges_seen", a.edgesSeen,
		"edges_accepted", len(res.Accepted),
		"elapsed", time.Since(start))

	if err := a.saveRun(res); err != nil {
		slog.Warn("failed to save run history", "error", err)
	}
	return res, nil
}

func (a *App) analyze(ctx context.Context, edges []deps.Dependency) analyzer.Result {
	_, span := observability.Tracer.Start(ctx, "app.analyze")
	defer span.End()

	resolved := make([]analyzer.Edge, 0, len(edges))
	for _, d := range edges {
		resolved = append(resolved, analyzer.Edge{
			Dep:           d,
			OriginArchive: a.archiveOf(d.Origin),
			TargetArchive: a.archiveOf(d.Target),
		})
	}
	return analyzer.New(a.Filter).Run(resolved)
}

// archiveOf resolves a location to its containing archive, falling
// back to the shared "not found" archive for classes outside the
// analysis set.
func (a *App) archiveOf(l deps.Location) *archive.Archive {
	if ar, ok := a.classIndex[string(l)]; ok {
		return ar
	}
	return a.notFound
}

// modulePackages expands a required module name to the packages of the
// archive carrying it. Unknown modules expand to nothing.
func (a *App) modulePackages(name string) []string {
	for _, ar := range a.archives {
		if ar.Module().Name != name {
			continue
		}
		seen := make(map[string]bool)
		for _, cn := range ar.Classes() {
			seen[deps.Location(cn).PackageName()] = true
		}
		return util.SortedStringKeys(seen)
	}
	return nil
}

func (a *App) buildFilter() error {
	f, err := buildFilter(a.Config.Filter, a.modulePackages)
	if err != nil {
		return fmt.Errorf("build filter: %w", err)
	}
	a.Filter = f
	return nil
}

func (a *App) saveRun(res analyzer.Result) error {
	if a.history == nil {
		return nil
	}
	_, err := a.history.SaveRun(history.Run{
		ArchiveCount:     len(a.archives),
		ClassCount:       a.classCount,
		EdgesSeen:        a.edgesSeen,
		EdgesAccepted:    len(res.Accepted),
		InternalsMode:    a.Config.Filter.Internals,
		InternalFindings: len(res.Findings),
	}, a.Config.History.Keep)
	return err
}

// RecentRuns returns recent run summaries, newest first.
func (a *App) RecentRuns(limit int) ([]history.Run, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history is not enabled")
	}
	return a.history.RecentRuns(limit)
}
