package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"depscope/internal/core/app"
	"depscope/internal/core/config"
	"depscope/internal/core/watcher"
	"depscope/internal/shared/observability"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	configPath    = flag.String("config", "./depscope.toml", "Path to config file")
	regex         = flag.String("regex", "", "Report only dependencies on classes matching the pattern")
	filterPattern = flag.String("filter-pattern", "", "Exclude dependencies on packages matching the pattern")
	filterPackage = flag.Bool("filter-package", false, "Exclude dependencies within the same package")
	filterArchive = flag.Bool("filter-archive", false, "Exclude dependencies within the same archive")
	internals     = flag.Bool("internals", false, "Report uses of non-exported packages of system modules")
	include       = flag.String("include", "", "Restrict analysis to classes matching the pattern")
	includeSystem = flag.String("include-system-modules", "", "Include system modules matching the pattern")
	format        = flag.String("format", "", "Output format: summary, verbose, dot, csv")
	outputPath    = flag.String("output", "", "Write output to file instead of stdout")
	historyRuns   = flag.Int("history", 0, "Print the N most recent runs and exit")
	watch         = flag.Bool("watch", false, "Re-run analysis when archives change")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	version       = flag.Bool("version", false, "Print version and exit")

	packages stringList
	requires stringList
)

const VERSION = "0.3.0"

func main() {
	flag.Var(&packages, "package", "Report only dependencies on the package (repeatable)")
	flag.Var(&requires, "requires", "Report only dependencies on the module (repeatable)")
	flag.Parse()

	if *version {
		fmt.Printf("depscope v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	if len(cfg.Scan.Roots) == 0 && *historyRuns == 0 {
		fmt.Fprintln(os.Stderr, "usage: depscope [flags] <archive-or-dir>...")
		os.Exit(2)
	}

	ctx := context.Background()
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	if *historyRuns > 0 {
		printHistory(a, *historyRuns)
		return
	}

	res, err := a.Run(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	if err := a.WriteOutput(res); err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}

	if !cfg.Watch.Enabled {
		return
	}

	if cfg.Observability.MetricsAddr != "" {
		srv := observability.NewServer(cfg.Observability.MetricsAddr)
		srv.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	w, err := watcher.New(cfg.Watch.Debounce, cfg.Scan.Include, cfg.Scan.Exclude, func(paths []string) {
		slog.Info("archives changed", "count", len(paths))
		res, err := a.Run(ctx)
		if err != nil {
			slog.Error("re-analysis failed", "error", err)
			return
		}
		if err := a.WriteOutput(res); err != nil {
			slog.Error("failed to write output", "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	defer func() { _ = w.Close() }()

	roots := make([]string, 0, len(cfg.Scan.Roots))
	for _, root := range cfg.Scan.Roots {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			roots = append(roots, root)
		}
	}
	if err := w.Watch(roots); err != nil {
		slog.Error("failed to watch roots", "error", err)
		os.Exit(1)
	}

	select {}
}

// applyFlags lets command-line options override the config file, the
// same precedence the original option surface has.
func applyFlags(cfg *config.Config) {
	if args := flag.Args(); len(args) > 0 {
		cfg.Scan.Roots = args
	}
	if *regex != "" {
		cfg.Filter.Regex = *regex
	}
	if len(packages) > 0 {
		cfg.Filter.Packages = append(cfg.Filter.Packages, packages...)
	}
	if len(requires) > 0 {
		cfg.Filter.Requires = append(cfg.Filter.Requires, requires...)
	}
	if *filterPattern != "" {
		cfg.Filter.FilterPattern = *filterPattern
	}
	if *internals {
		cfg.Filter.Internals = true
	}
	if *include != "" {
		cfg.Filter.Include = *include
	}
	if *includeSystem != "" {
		cfg.Filter.IncludeSystemModules = *includeSystem
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *watch {
		cfg.Watch.Enabled = true
	}

	// Bool flags only count as configured when given explicitly, so an
	// unfiltered invocation still gets the default policy.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "filter-package":
			cfg.Filter.SamePackage = filterPackage
		case "filter-archive":
			cfg.Filter.SameArchive = filterArchive
		}
	})
}

func printHistory(a *app.App, limit int) {
	runs, err := a.RecentRuns(limit)
	if err != nil {
		slog.Error("failed to load run history", "error", err)
		os.Exit(1)
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  archives=%d classes=%d edges=%d/%d internals=%v findings=%d\n",
			r.Timestamp.Format(time.RFC3339), r.ID,
			r.ArchiveCount, r.ClassCount, r.EdgesAccepted, r.EdgesSeen, r.InternalsMode, r.InternalFindings)
	}
}
