package gitlib

import (
	"context"
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrPathNotInCommit is returned when a narrow checkout names a path the commit does not contain.
var ErrPathNotInCommit = errors.New("pathspec did not match any file known to git")

// CheckoutPath writes the version of path recorded in the given commit into
// the working tree and index, like `git checkout <commit> -- <path>`. Other
// working tree files are left untouched.
func (r *Repository) CheckoutPath(ctx context.Context, hash Hash, path string) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	commit, err := r.LookupCommit(ctx, hash)
	if err != nil {
		return err
	}
	defer commit.Free()

	_, present, err := commit.PathBlob(path)
	if err != nil {
		return err
	}

	if !present {
		return fmt.Errorf("%w: '%s' at %s", ErrPathNotInCommit, path, hash.Short())
	}

	tree, err := commit.Tree()
	if err != nil {
		return err
	}
	defer tree.Free()

	opts := &git2go.CheckoutOptions{
		Strategy: git2go.CheckoutForce | git2go.CheckoutDisablePathspecMatch,
		Paths:    []string{path},
	}

	err = r.repo.CheckoutTree(tree.tree, opts)
	if err != nil {
		return fmt.Errorf("checkout %s -- %s: %w", hash.Short(), path, err)
	}

	return nil
}

// CheckoutRevision resolves rev (tag, branch or hash), checks its tree out
// and detaches HEAD there.
func (r *Repository) CheckoutRevision(ctx context.Context, rev string) (Hash, error) {
	err := ctx.Err()
	if err != nil {
		return Hash{}, err
	}

	obj, err := r.repo.RevparseSingle(rev)
	if err != nil {
		return Hash{}, fmt.Errorf("resolve %s: %w", rev, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return Hash{}, fmt.Errorf("peel %s: %w", rev, err)
	}
	defer peeled.Free()

	native, err := peeled.AsCommit()
	if err != nil {
		return Hash{}, fmt.Errorf("peel %s: %w", rev, err)
	}

	commit := &Commit{commit: native}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return Hash{}, err
	}
	defer tree.Free()

	err = r.repo.CheckoutTree(tree.tree, &git2go.CheckoutOptions{Strategy: git2go.CheckoutSafe})
	if err != nil {
		return Hash{}, fmt.Errorf("checkout %s: %w", rev, err)
	}

	err = r.repo.SetHeadDetached(native.Id())
	if err != nil {
		return Hash{}, fmt.Errorf("detach HEAD at %s: %w", rev, err)
	}

	return commit.Hash(), nil
}
