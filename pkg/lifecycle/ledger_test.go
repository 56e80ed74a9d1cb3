package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

func TestLedger_ApplyOverwritesPerKind(t *testing.T) {
	t.Parallel()

	ledger := lifecycle.NewLedger()

	ledger.Apply(lifecycle.Event{Path: "a.py", Text: "x", Kind: lifecycle.Introduced, When: t1})
	ledger.Apply(lifecycle.Event{Path: "a.py", Text: "x", Kind: lifecycle.Removed, When: t2})
	ledger.Apply(lifecycle.Event{Path: "a.py", Text: "x", Kind: lifecycle.Introduced, When: t3})

	entry, ok := ledger.Lookup("a.py", "x")
	require.True(t, ok)
	assert.Equal(t, t3, *entry.Introduced)
	assert.Equal(t, t2, *entry.Removed)
	assert.Equal(t, 1, ledger.Len())
}

func TestLedger_SameTextInDifferentFilesIsDistinct(t *testing.T) {
	t.Parallel()

	ledger := lifecycle.NewLedger()

	ledger.Apply(lifecycle.Event{Path: "b.py", Text: "x", Kind: lifecycle.Introduced, When: t1})
	ledger.Apply(lifecycle.Event{Path: "a.py", Text: "x", Kind: lifecycle.Introduced, When: t2})

	rows := ledger.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "b.py", rows[0].Path)
	assert.Equal(t, "a.py", rows[1].Path)
	assert.Nil(t, rows[0].Removed)

	_, ok := ledger.Lookup("c.py", "x")
	assert.False(t, ok)
}

func TestErrorLedger_RecordsIsACopy(t *testing.T) {
	t.Parallel()

	errs := lifecycle.NewErrorLedger()
	errs.Append(lifecycle.ErrorRecord{Path: "a.py", Commit: "c1", Message: "boom"})

	records := errs.Records()
	records[0].Message = "changed"

	assert.Equal(t, "boom", errs.Records()[0].Message)
	assert.Equal(t, 1, errs.Len())
}

func TestEventKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "introduced", lifecycle.Introduced.String())
	assert.Equal(t, "removed", lifecycle.Removed.String())
}
