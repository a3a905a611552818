package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"depscope/internal/engine/archive"
	"depscope/internal/engine/classfile"
	"depscope/internal/engine/deps"
	"depscope/internal/shared/observability"
)

// discoverArchives walks the configured roots and indexes every
// archive matching the include globs. Paths given directly as roots
// are read unconditionally.
func (a *App) discoverArchives(ctx context.Context) error {
	_, span := observability.Tracer.Start(ctx, "app.discoverArchives")
	defer span.End()

	include, err := compileGlobs(a.Config.Scan.Include)
	if err != nil {
		return err
	}
	exclude, err := compileGlobs(a.Config.Scan.Exclude)
	if err != nil {
		return err
	}

	var paths []string
	for _, root := range a.Config.Scan.Roots {
		info, err := os.Stat(root)
		if err == nil && !info.IsDir() {
			paths = append(paths, root)
			continue
		}
		if err == nil && isClassDir(root) {
			paths = append(paths, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if matchesAny(exclude, base) || !matchesAny(include, base) {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return err
		}
	}

	a.archives = a.archives[:0]
	a.classIndex = make(map[string]*archive.Archive)
	for _, path := range paths {
		ar, err := archive.Read(path)
		if err != nil {
			slog.Warn("skipping unreadable archive", "path", path, "error", err)
			continue
		}
		a.archives = append(a.archives, ar)
		for _, cn := range ar.Classes() {
			if _, ok := a.classIndex[cn]; !ok {
				a.classIndex[cn] = ar
			}
		}
	}

	observability.ArchivesScanned.Set(float64(len(a.archives)))
	slog.Debug("archives discovered", "count", len(a.archives))
	return nil
}

// scanArchives parses class files concurrently and applies the
// edge-level filter as dependencies are discovered. Archives whose
// module is out of scope, or which cannot contain an included class,
// are skipped.
func (a *App) scanArchives(ctx context.Context) ([]deps.Dependency, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.scanArchives")
	defer span.End()

	var scope []*archive.Archive
	for _, ar := range a.archives {
		if !a.Filter.IncludeModule(ar) {
			slog.Debug("skipping system module", "archive", ar.Name(), "module", ar.Module().Name)
			continue
		}
		if a.Filter.HasIncludePattern() && !a.Filter.MatchesArchive(ar) {
			slog.Debug("skipping archive outside include scope", "archive", ar.Name())
			continue
		}
		scope = append(scope, ar)
	}

	work := make(chan *archive.Archive)
	var (
		mu         sync.Mutex
		edges      []deps.Dependency
		classCount int
		rawCount   int
		firstErr   error
	)

	var wg sync.WaitGroup
	for i := 0; i < a.Config.Scan.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ar := range work {
				if err := a.limiter.Wait(ctx); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					// Keep draining; the producer sends unconditionally
					// and must never block on exited workers.
					continue
				}
				archEdges, classes, raw, err := a.scanArchive(ar)
				mu.Lock()
				if err != nil && firstErr == nil {
					firstErr = err
				}
				edges = append(edges, archEdges...)
				classCount += classes
				rawCount += raw
				mu.Unlock()
			}
		}()
	}

	for _, ar := range scope {
		work <- ar
	}
	close(work)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	a.classCount = classCount
	a.edgesSeen = rawCount
	return edges, nil
}

// scanArchive extracts all edge-filter-accepted dependencies of one
// archive's classes, also reporting how many edges were seen before
// filtering.
func (a *App) scanArchive(ar *archive.Archive) ([]deps.Dependency, int, int, error) {
	start := time.Now()
	defer func() {
		observability.ScanDuration.WithLabelValues(ar.Name()).Observe(time.Since(start).Seconds())
	}()

	var edges []deps.Dependency
	classes := 0
	raw := 0
	err := ar.EachClass(func(entry string, data []byte) error {
		cf, err := classfile.Parse(data)
		if err != nil {
			observability.ClassParseErrors.Inc()
			slog.Warn("failed to parse class file", "archive", ar.Name(), "entry", entry, "error", err)
			return nil
		}
		observability.ClassesParsed.Inc()
		if !a.Filter.MatchesClass(cf.ThisClass) {
			return nil
		}
		classes++
		origin := deps.Location(cf.ThisClass)
		for _, ref := range cf.Referenced {
			observability.EdgesSeen.Inc()
			raw++
			d := deps.Dependency{Origin: origin, Target: deps.Location(ref)}
			if !a.Filter.Accepts(d) {
				observability.EdgesRejected.WithLabelValues(observability.StageEdge).Inc()
				continue
			}
			edges = append(edges, d)
		}
		return nil
	})
	return edges, classes, raw, err
}

// isClassDir reports whether root is an exploded class directory, one
// holding at least one .class file. Such a root is read as a single
// archive instead of being walked for jars.
func isClassDir(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".class") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
