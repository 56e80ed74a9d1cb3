package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordCall(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	red.RecordCall(context.Background(), "comments_extract", observability.StatusOK, 100*time.Millisecond)
	red.RecordCall(context.Background(), "comments_lifecycle", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	calls := findMetric(rm, "commentlife.mcp.calls.total")
	require.NotNil(t, calls)
	assert.Equal(t, int64(2), sumInt64(t, calls))

	errs := findMetric(rm, "commentlife.mcp.errors.total")
	require.NotNil(t, errs)
	assert.Equal(t, int64(1), sumInt64(t, errs))

	assert.NotNil(t, findMetric(rm, "commentlife.mcp.call.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "comments_extract")

	inflight := findMetric(collectMetrics(t, reader), "commentlife.mcp.inflight.calls")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(1), sumInt64(t, inflight))

	done()

	inflight = findMetric(collectMetrics(t, reader), "commentlife.mcp.inflight.calls")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(0), sumInt64(t, inflight))
}

func TestREDMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var red *observability.REDMetrics

	assert.NotPanics(t, func() {
		red.RecordCall(context.Background(), "x", observability.StatusOK, time.Millisecond)
		red.TrackInflight(context.Background(), "x")()
	})
}

func TestWalkMetrics_RecordFile(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	wm, err := observability.NewWalkMetrics(mp.Meter("test"))
	require.NoError(t, err)

	wm.RecordFile(context.Background(), observability.FileStats{
		Language:   "cpp",
		Revisions:  4,
		Introduced: 3,
		Removed:    1,
		Errors:     1,
		Duration:   250 * time.Millisecond,
	})

	rm := collectMetrics(t, reader)

	files := findMetric(rm, "commentlife.walk.files.total")
	require.NotNil(t, files)
	assert.Equal(t, int64(1), sumInt64(t, files))

	revisions := findMetric(rm, "commentlife.walk.revisions.total")
	require.NotNil(t, revisions)
	assert.Equal(t, int64(4), sumInt64(t, revisions))

	events := findMetric(rm, "commentlife.walk.events.total")
	require.NotNil(t, events)
	assert.Equal(t, int64(4), sumInt64(t, events))

	errs := findMetric(rm, "commentlife.walk.errors.total")
	require.NotNil(t, errs)
	assert.Equal(t, int64(1), sumInt64(t, errs))

	assert.NotNil(t, findMetric(rm, "commentlife.walk.file.duration.seconds"))
}

func TestWalkMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var wm *observability.WalkMetrics

	assert.NotPanics(t, func() {
		wm.RecordFile(context.Background(), observability.FileStats{Revisions: 1})
	})
}
