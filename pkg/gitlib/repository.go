package gitlib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrBareRepository is returned for operations that need a working tree.
var ErrBareRepository = errors.New("repository has no working tree")

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the path the repository was opened with.
func (r *Repository) Path() string {
	return r.path
}

// Workdir returns the working tree root, or "" for a bare repository.
func (r *Repository) Workdir() string {
	return r.repo.Workdir()
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the HEAD reference target.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(_ context.Context, hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit: %w", err)
	}

	return &Commit{commit: commit}, nil
}

// ReadWorkdirFile reads a repository-relative path from the working tree.
func (r *Repository) ReadWorkdirFile(path string) ([]byte, error) {
	workdir := r.Workdir()
	if workdir == "" {
		return nil, ErrBareRepository
	}

	data, err := os.ReadFile(filepath.Join(workdir, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
