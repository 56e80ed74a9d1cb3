package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal     = "commentlife.walk.files.total"
	metricRevisionsTotal = "commentlife.walk.revisions.total"
	metricEventsTotal    = "commentlife.walk.events.total"
	metricErrorsTotal    = "commentlife.walk.errors.total"
	metricFileDuration   = "commentlife.walk.file.duration.seconds"

	attrKind     = "kind"
	attrLanguage = "language"
)

// WalkMetrics holds the instruments fed by the revision walker.
type WalkMetrics struct {
	filesTotal     metric.Int64Counter
	revisionsTotal metric.Int64Counter
	eventsTotal    metric.Int64Counter
	errorsTotal    metric.Int64Counter
	fileDuration   metric.Float64Histogram
}

// FileStats summarizes the walk of one file's history.
type FileStats struct {
	Language   string
	Revisions  int
	Introduced int
	Removed    int
	Errors     int
	Duration   time.Duration
}

// NewWalkMetrics creates the walker instruments from mt.
func NewWalkMetrics(mt metric.Meter) (*WalkMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files whose history was walked"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	revisions, err := mt.Int64Counter(metricRevisionsTotal,
		metric.WithDescription("Revisions materialized"),
		metric.WithUnit("{revision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRevisionsTotal, err)
	}

	events, err := mt.Int64Counter(metricEventsTotal,
		metric.WithDescription("Comment lifecycle events by kind"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEventsTotal, err)
	}

	errs, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Revisions that could not be materialized"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file history walk duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &WalkMetrics{
		filesTotal:     files,
		revisionsTotal: revisions,
		eventsTotal:    events,
		errorsTotal:    errs,
		fileDuration:   duration,
	}, nil
}

// RecordFile records the outcome of one file walk. Safe on a nil receiver.
func (wm *WalkMetrics) RecordFile(ctx context.Context, stats FileStats) {
	if wm == nil {
		return
	}

	lang := metric.WithAttributes(attribute.String(attrLanguage, stats.Language))

	wm.filesTotal.Add(ctx, 1, lang)
	wm.revisionsTotal.Add(ctx, int64(stats.Revisions), lang)
	wm.errorsTotal.Add(ctx, int64(stats.Errors), lang)
	wm.fileDuration.Record(ctx, stats.Duration.Seconds(), lang)

	wm.eventsTotal.Add(ctx, int64(stats.Introduced), metric.WithAttributes(
		attribute.String(attrLanguage, stats.Language),
		attribute.String(attrKind, "introduced"),
	))
	wm.eventsTotal.Add(ctx, int64(stats.Removed), metric.WithAttributes(
		attribute.String(attrLanguage, stats.Language),
		attribute.String(attrKind, "removed"),
	))
}
