package satd_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
	"github.com/Sumatoshi-tech/commentlife/pkg/satd"
)

func TestPreprocess(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "todo fix this later", satd.Preprocess("  TODO: fix   this\tlater!! "))
	assert.Equal(t, "xxx", satd.Preprocess("XXX"))
	assert.Empty(t, satd.Preprocess("--- ***"))
}

func TestLoadKeywords(t *testing.T) {
	t.Parallel()

	keywords, err := satd.LoadKeywords(strings.NewReader("todo\n\n  hack \nfix me\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"todo", "hack", "fix me"}, keywords)
}

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	f := satd.NewFilter([]string{"todo", "HACK", "fix me", "c++"})

	tests := []struct {
		comment string
		want    bool
	}{
		{"TODO: handle negative sizes", true},
		{"ugly hack around libfoo", true},
		{"please fix-me soon", false},
		{"please fix me soon", true},
		{"todolist is rendered here", false},
		{"mastodon integration", false},
		{"port to c later", true},
		{"plain documentation", false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, f.Match(tt.comment))
		})
	}
}

func TestFilter_NoKeywordsMatchesNothing(t *testing.T) {
	t.Parallel()

	f := satd.NewFilter([]string{"", "!!!"})

	assert.False(t, f.Match("todo"))
}

func TestFilter_Rows(t *testing.T) {
	t.Parallel()

	rows := []lifecycle.Row{
		{Path: "a.py", Comment: "TODO remove"},
		{Path: "a.py", Comment: "computes the sum"},
		{Path: "b.cpp", Comment: "Workaround: hack"},
	}

	got := satd.NewFilter([]string{"todo", "hack"}).Rows(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "TODO remove", got[0].Comment)
	assert.Equal(t, "b.cpp", got[1].Path)
}
