package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/commentlife/pkg/gitlib"
)

// ErrInvalidTimestampSource is returned by ParseTimestampSource.
var ErrInvalidTimestampSource = errors.New("invalid timestamp source")

// Revision is one historical version of a file.
type Revision struct {
	When time.Time
	Hash string
}

// History enumerates and materializes the versions of a file.
type History interface {
	// Revisions lists the revisions that modified path, oldest first.
	Revisions(ctx context.Context, path string) ([]Revision, error)
	// Materialize returns the content of path as of rev.
	Materialize(ctx context.Context, rev Revision, path string) ([]byte, error)
}

// TimestampSource selects which commit time stamps an event.
type TimestampSource int

// Timestamp sources.
const (
	AuthorTime TimestampSource = iota
	CommitterTime
)

// String returns the config spelling of the source.
func (s TimestampSource) String() string {
	if s == CommitterTime {
		return "committer"
	}

	return "author"
}

// ParseTimestampSource accepts "author" (or "") and "committer".
func ParseTimestampSource(name string) (TimestampSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "author":
		return AuthorTime, nil
	case "committer":
		return CommitterTime, nil
	default:
		return AuthorTime, fmt.Errorf("%w: %q", ErrInvalidTimestampSource, name)
	}
}

// GitHistory reads file history from a git working tree. Materialize
// performs a narrow checkout of the file, so a GitHistory must not be shared
// between concurrent walks of the same repository.
type GitHistory struct {
	Repo      *gitlib.Repository
	Log       gitlib.LogOptions
	Timestamp TimestampSource
}

// Revisions implements History.
func (h *GitHistory) Revisions(ctx context.Context, path string) ([]Revision, error) {
	opts := h.Log

	commits, err := h.Repo.FileLog(ctx, path, &opts)
	if err != nil {
		return nil, fmt.Errorf("enumerate revisions of %s: %w", path, err)
	}

	revs := make([]Revision, 0, len(commits))

	for _, commit := range commits {
		when := commit.Author().When
		if h.Timestamp == CommitterTime {
			when = commit.Committer().When
		}

		revs = append(revs, Revision{Hash: commit.Hash().String(), When: when})
		commit.Free()
	}

	return revs, nil
}

// Materialize implements History.
func (h *GitHistory) Materialize(ctx context.Context, rev Revision, path string) ([]byte, error) {
	hash, err := gitlib.ParseHash(rev.Hash)
	if err != nil {
		return nil, err
	}

	err = h.Repo.CheckoutPath(ctx, hash, path)
	if err != nil {
		return nil, err
	}

	return h.Repo.ReadWorkdirFile(path)
}
