package lifecycle_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
	"github.com/Sumatoshi-tech/commentlife/pkg/gitlib"
	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

func commitAt(t *testing.T, tr *gitlib.TestRepo, msg string, when time.Time) gitlib.Hash {
	t.Helper()

	hash, err := tr.Commit(msg, when)
	require.NoError(t, err)

	return hash
}

func TestParseTimestampSource(t *testing.T) {
	t.Parallel()

	src, err := lifecycle.ParseTimestampSource("")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.AuthorTime, src)

	src, err = lifecycle.ParseTimestampSource("Committer")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.CommitterTime, src)
	assert.Equal(t, "committer", src.String())

	_, err = lifecycle.ParseTimestampSource("push")
	require.ErrorIs(t, err, lifecycle.ErrInvalidTimestampSource)
}

func TestGitHistory_WalkRealRepository(t *testing.T) {
	t.Parallel()

	tr, err := gitlib.InitTestRepo(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(tr.Free)

	require.NoError(t, tr.WriteFile("pkg/a.py", "# TODO: tidy\nx = 1\n"))
	require.NoError(t, tr.WriteFile("README", "hello\n"))
	commitAt(t, tr, "add a.py", t1)

	require.NoError(t, tr.WriteFile("README", "hello again\n"))
	commitAt(t, tr, "unrelated", t1.Add(time.Hour))

	require.NoError(t, tr.WriteFile("pkg/a.py", "x = 1  # counter\n"))
	second := commitAt(t, tr, "rework a.py", t2)

	require.NoError(t, tr.RemoveFile("pkg/a.py"))
	deletion := commitAt(t, tr, "drop a.py", t3)

	repo, err := gitlib.OpenRepository(tr.Path)
	require.NoError(t, err)
	t.Cleanup(repo.Free)

	hist := &lifecycle.GitHistory{Repo: repo}

	revs, err := hist.Revisions(context.Background(), "pkg/a.py")
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, second.String(), revs[1].Hash)
	assert.True(t, t2.Equal(revs[1].When))

	ledger := lifecycle.NewLedger()
	errs := lifecycle.NewErrorLedger()

	w := &lifecycle.Walker{History: hist, Root: tr.Path}
	stats, err := w.Run(context.Background(),
		[]lifecycle.Target{{Path: "pkg/a.py", Language: comments.Python}}, ledger, errs)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Revisions)

	path := filepath.Join(tr.Path, "pkg", "a.py")

	todo, ok := ledger.Lookup(path, "TODO: tidy")
	require.True(t, ok)
	assert.True(t, t1.Equal(*todo.Introduced))
	assert.True(t, t2.Equal(*todo.Removed))

	counter, ok := ledger.Lookup(path, "counter")
	require.True(t, ok)
	assert.True(t, t2.Equal(*counter.Introduced))
	assert.Nil(t, counter.Removed)

	require.Equal(t, 1, errs.Len())
	assert.Equal(t, deletion.String(), errs.Records()[0].Commit)
	assert.Equal(t, path, errs.Records()[0].Path)
}
