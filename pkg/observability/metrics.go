package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricToolCallsTotal    = "commentlife.mcp.calls.total"
	metricToolCallDuration  = "commentlife.mcp.call.duration.seconds"
	metricToolErrorsTotal   = "commentlife.mcp.errors.total"
	metricToolInflightCalls = "commentlife.mcp.inflight.calls"

	attrTool   = "tool"
	attrStatus = "status"

	// StatusOK marks a successful tool call.
	StatusOK = "ok"
	// StatusError marks a failed tool call.
	StatusError = "error"
)

// durationBucketBoundaries spans 10ms to 600s: a single small file walks in
// milliseconds, a long-lived file in a large repository takes minutes.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// REDMetrics holds rate, error and duration instruments for MCP tool calls.
type REDMetrics struct {
	callsTotal    metric.Int64Counter
	callDuration  metric.Float64Histogram
	errorsTotal   metric.Int64Counter
	inflightCalls metric.Int64UpDownCounter
}

// NewREDMetrics creates the tool-call instruments from mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	calls, err := mt.Int64Counter(metricToolCallsTotal,
		metric.WithDescription("Total number of MCP tool calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolCallsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricToolCallDuration,
		metric.WithDescription("MCP tool call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolCallDuration, err)
	}

	errs, err := mt.Int64Counter(metricToolErrorsTotal,
		metric.WithDescription("Total number of failed MCP tool calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricToolInflightCalls,
		metric.WithDescription("Number of MCP tool calls in progress"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolInflightCalls, err)
	}

	return &REDMetrics{
		callsTotal:    calls,
		callDuration:  duration,
		errorsTotal:   errs,
		inflightCalls: inflight,
	}, nil
}

// RecordCall records a finished tool call. Safe on a nil receiver.
func (rm *REDMetrics) RecordCall(ctx context.Context, tool, status string, duration time.Duration) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)

	rm.callsTotal.Add(ctx, 1, attrs)
	rm.callDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrTool, tool)))
	}
}

// TrackInflight increments the in-flight gauge and returns the matching
// decrement. Safe on a nil receiver.
func (rm *REDMetrics) TrackInflight(ctx context.Context, tool string) func() {
	if rm == nil {
		return func() {}
	}

	attrs := metric.WithAttributes(attribute.String(attrTool, tool))
	rm.inflightCalls.Add(ctx, 1, attrs)

	return func() {
		rm.inflightCalls.Add(ctx, -1, attrs)
	}
}
