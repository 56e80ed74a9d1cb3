package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
)

func TestInit_NoopWhenNothingConfigured(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.Nil(t, providers.Registry)

	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.NotNil(t, ctx)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_ShutdownIdempotent(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_MetricsFileWrittenOnShutdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "commentlife.prom")

	cfg := observability.DefaultConfig()
	cfg.MetricsFile = path

	providers, err := observability.Init(cfg)
	require.NoError(t, err)
	require.NotNil(t, providers.Registry)

	wm, err := observability.NewWalkMetrics(providers.Meter)
	require.NoError(t, err)

	wm.RecordFile(context.Background(), observability.FileStats{
		Language:   "python",
		Revisions:  3,
		Introduced: 2,
	})

	require.NoError(t, providers.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "commentlife_walk_revisions")
	assert.Contains(t, string(data), `language="python"`)
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"empty", "", nil},
		{"single", "key=value", map[string]string{"key": "value"}},
		{"multiple", "k1=v1,k2=v2", map[string]string{"k1": "v1", "k2": "v2"}},
		{"spaces", " k1 = v1 , k2 = v2 ", map[string]string{"k1": "v1", "k2": "v2"}},
		{"no_equals", "invalid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.input))
		})
	}
}
