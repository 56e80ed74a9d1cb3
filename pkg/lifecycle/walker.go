package lifecycle

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
)

// Target is one file queued for a history walk.
type Target struct {
	Path     string
	Language comments.Language
}

// Result is the outcome of walking one file.
type Result struct {
	Path      string
	Events    []Event
	Errors    []ErrorRecord
	Revisions int
	Language  comments.Language
}

// Stats aggregates the results of a Run.
type Stats struct {
	Files      int
	Revisions  int
	Events     int
	Introduced int
	Removed    int
	Errors     int
	Duration   time.Duration
}

// Add folds a single file result into the stats.
func (s *Stats) Add(res Result) {
	s.Files++
	s.Revisions += res.Revisions
	s.Events += len(res.Events)
	s.Errors += len(res.Errors)

	for _, ev := range res.Events {
		if ev.Kind == Introduced {
			s.Introduced++
		} else {
			s.Removed++
		}
	}
}

// Walker replays file histories and turns comment set changes into events.
// Logger, Metrics and Tracer are optional.
type Walker struct {
	History History
	Logger  *slog.Logger
	Metrics *observability.WalkMetrics
	Tracer  trace.Tracer

	// Root prefixes every path recorded in events and error records,
	// typically the repository's working directory.
	Root string

	// Progress, when set, is called by Run after each file with the number
	// of files done so far and the total.
	Progress func(done, total int, res Result)
}

// Walk replays the history of path oldest first. Failures are reported in
// the result and never returned: a failed revision enumeration yields one
// record with an empty commit hash, a failed materialization yields one
// record carrying that revision's hash and ends the walk of this file.
func (w *Walker) Walk(ctx context.Context, path string, lang comments.Language) Result {
	start := time.Now()
	res := Result{Path: w.recordPath(path), Language: lang}

	ctx, span := w.tracer().Start(ctx, "lifecycle.walk_file", trace.WithAttributes(
		attribute.String("file.path", path),
		attribute.String("file.language", lang.String()),
	))
	defer span.End()

	defer func() {
		stats := observability.FileStats{
			Language:  lang.String(),
			Revisions: res.Revisions,
			Errors:    len(res.Errors),
			Duration:  time.Since(start),
		}

		for _, ev := range res.Events {
			if ev.Kind == Introduced {
				stats.Introduced++
			} else {
				stats.Removed++
			}
		}

		w.Metrics.RecordFile(ctx, stats)
		span.SetAttributes(
			attribute.Int("file.revisions", res.Revisions),
			attribute.Int("file.events", len(res.Events)),
		)
	}()

	extractor, err := comments.For(lang)
	if err != nil {
		w.fail(ctx, span, &res, "", err)

		return res
	}

	revs, err := w.History.Revisions(ctx, path)
	if err != nil {
		w.fail(ctx, span, &res, "", err)

		return res
	}

	previous := comments.NewSet()

	for _, rev := range revs {
		if ctx.Err() != nil {
			return res
		}

		content, err := w.History.Materialize(ctx, rev, path)
		if err != nil {
			if ctx.Err() == nil {
				w.fail(ctx, span, &res, rev.Hash, err)
			}

			return res
		}

		res.Revisions++

		current, err := extractor.Extract(content)
		if err != nil {
			w.logger().DebugContext(ctx, "revision is not text, treating as empty",
				"path", res.Path, "commit", rev.Hash, "error", err)

			current = comments.NewSet()
		}

		for _, text := range current.Diff(previous) {
			res.Events = append(res.Events, Event{
				When: rev.When, Path: res.Path, Text: text, Commit: rev.Hash, Kind: Introduced,
			})
		}

		for _, text := range previous.Diff(current) {
			res.Events = append(res.Events, Event{
				When: rev.When, Path: res.Path, Text: text, Commit: rev.Hash, Kind: Removed,
			})
		}

		previous = current
	}

	w.logger().DebugContext(ctx, "file walked",
		"path", res.Path, "revisions", res.Revisions, "events", len(res.Events))

	return res
}

// Run walks every target in order, applying events to ledger and failures
// to errs. A file's failure never stops the others; only cancellation of ctx
// ends the run early, in which case ctx's error is returned.
func (w *Walker) Run(ctx context.Context, targets []Target, ledger *Ledger, errs *ErrorLedger) (Stats, error) {
	start := time.Now()

	var stats Stats

	for idx, target := range targets {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)

			return stats, err
		}

		res := w.Walk(ctx, target.Path, target.Language)

		for _, ev := range res.Events {
			ledger.Apply(ev)
		}

		for _, rec := range res.Errors {
			errs.Append(rec)
		}

		stats.Add(res)

		if w.Progress != nil {
			w.Progress(idx+1, len(targets), res)
		}
	}

	stats.Duration = time.Since(start)

	return stats, ctx.Err()
}

func (w *Walker) fail(ctx context.Context, span trace.Span, res *Result, commit string, err error) {
	res.Errors = append(res.Errors, ErrorRecord{
		Path:    res.Path,
		Commit:  commit,
		Message: err.Error(),
	})

	span.RecordError(err)
	span.SetStatus(codes.Error, "walk stopped")

	w.logger().WarnContext(ctx, "file walk stopped", "path", res.Path, "commit", commit, "error", err)
}

func (w *Walker) recordPath(path string) string {
	if w.Root == "" {
		return path
	}

	return filepath.Join(w.Root, filepath.FromSlash(path))
}

func (w *Walker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}

	return w.Logger
}

func (w *Walker) tracer() trace.Tracer {
	if w.Tracer == nil {
		return nooptrace.NewTracerProvider().Tracer("")
	}

	return w.Tracer
}
