package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscope_archive_scan_seconds",
		Help:    "Time spent scanning one archive for class dependencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"archive"})

	ClassesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_classes_parsed_total",
		Help: "Total number of class files parsed.",
	})

	ClassParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_class_parse_errors_total",
		Help: "Total number of class files that failed to parse.",
	})

	EdgesSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_edges_seen_total",
		Help: "Total number of dependency edges discovered during parsing.",
	})

	EdgesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depscope_edges_rejected_total",
		Help: "Total number of dependency edges rejected, by filter stage.",
	}, []string{"stage"})

	EdgesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_edges_accepted_total",
		Help: "Total number of dependency edges surviving both filter stages.",
	})

	ArchivesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_archives_scanned",
		Help: "Number of archives scanned in the last analysis run.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscope_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// Filter stage labels for EdgesRejected.
const (
	StageEdge    = "edge"
	StageArchive = "archive"
)
