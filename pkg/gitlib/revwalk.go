package gitlib

import (
	"context"
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// LogOptions configures path history enumeration.
type LogOptions struct {
	Since       *time.Time // Skip commits authored before this time.
	FirstParent bool       // Follow only first parent (git log --first-parent).
	Limit       int        // Keep only the newest Limit matching commits; 0 keeps all.
}

// FileLog returns the commits reachable from HEAD that modified path, oldest
// first. A commit modified path when the file's blob differs from every one
// of its parents (a root commit when the file exists in it); merges that keep
// one parent's version are skipped like git log's default simplification.
func (r *Repository) FileLog(ctx context.Context, path string, opts *LogOptions) ([]*Commit, error) {
	if opts == nil {
		opts = &LogOptions{}
	}

	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	err = walk.PushHead()
	if err != nil {
		return nil, fmt.Errorf("push HEAD to revwalk: %w", err)
	}

	// Topological order ensures a parent is never visited before its child.
	walk.Sorting(git2go.SortTopological | git2go.SortTime)

	if opts.FirstParent {
		walk.SimplifyFirstParent()
	}

	var commits []*Commit

	oid := new(git2go.Oid)

	for {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			freeCommits(commits)

			return nil, ctxErr
		}

		nextErr := walk.Next(oid)
		if git2go.IsErrorCode(nextErr, git2go.ErrorCodeIterOver) {
			break
		}

		if nextErr != nil {
			freeCommits(commits)

			return nil, fmt.Errorf("revwalk next: %w", nextErr)
		}

		native, lookupErr := r.repo.LookupCommit(oid)
		if lookupErr != nil {
			freeCommits(commits)

			return nil, fmt.Errorf("lookup commit %s: %w", oid, lookupErr)
		}

		commit := &Commit{commit: native}

		// The walk is ordered by committer time, so an old author date does
		// not mean every later commit is older too.
		if opts.Since != nil && commit.Author().When.Before(*opts.Since) {
			commit.Free()

			continue
		}

		touched, touchErr := touchesPath(commit, path, opts.FirstParent)
		if touchErr != nil {
			commit.Free()
			freeCommits(commits)

			return nil, touchErr
		}

		if !touched {
			commit.Free()

			continue
		}

		commits = append(commits, commit)

		if opts.Limit > 0 && len(commits) >= opts.Limit {
			break
		}
	}

	ReverseCommits(commits)

	return commits, nil
}

func touchesPath(commit *Commit, path string, firstParent bool) (bool, error) {
	id, present, err := commit.PathBlob(path)
	if err != nil {
		return false, fmt.Errorf("inspect %s at %s: %w", path, commit.Hash().Short(), err)
	}

	parents := commit.NumParents()
	if parents == 0 {
		return present, nil
	}

	if firstParent {
		parents = 1
	}

	for i := range parents {
		parent, parentErr := commit.Parent(i)
		if parentErr != nil {
			return false, parentErr
		}

		parentID, parentPresent, blobErr := parent.PathBlob(path)
		parent.Free()

		if blobErr != nil {
			return false, fmt.Errorf("inspect %s at %s: %w", path, commit.ParentHash(i).Short(), blobErr)
		}

		if parentPresent == present && parentID == id {
			return false, nil
		}
	}

	return true, nil
}

func freeCommits(commits []*Commit) {
	for _, c := range commits {
		c.Free()
	}
}
