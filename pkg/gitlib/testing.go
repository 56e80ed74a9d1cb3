package gitlib

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// TestRepo builds throwaway repositories with controlled commit times.
// It is used by tests across packages that need real history.
type TestRepo struct {
	Path   string
	native *git2go.Repository
}

// InitTestRepo initializes a non-bare repository in dir.
func InitTestRepo(dir string) (*TestRepo, error) {
	repo, err := git2go.InitRepository(dir, false)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}

	return &TestRepo{Path: dir, native: repo}, nil
}

// WriteFile creates or replaces a working tree file.
func (tr *TestRepo) WriteFile(name, content string) error {
	path := filepath.Join(tr.Path, filepath.FromSlash(name))

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), 0o644)
}

// RemoveFile deletes a working tree file.
func (tr *TestRepo) RemoveFile(name string) error {
	return os.Remove(filepath.Join(tr.Path, filepath.FromSlash(name)))
}

// Commit stages every change in the working tree and commits it on HEAD
// with author and committer time set to when.
func (tr *TestRepo) Commit(message string, when time.Time) (Hash, error) {
	return tr.CommitAs(message, when, when)
}

// CommitAs is Commit with distinct author and committer times, as left
// behind by a rebase or cherry-pick.
func (tr *TestRepo) CommitAs(message string, authored, committed time.Time) (Hash, error) {
	index, err := tr.native.Index()
	if err != nil {
		return Hash{}, err
	}
	defer index.Free()

	err = index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	if err != nil {
		return Hash{}, err
	}

	err = index.UpdateAll([]string{"*"}, nil)
	if err != nil {
		return Hash{}, err
	}

	err = index.Write()
	if err != nil {
		return Hash{}, err
	}

	treeID, err := index.WriteTree()
	if err != nil {
		return Hash{}, err
	}

	tree, err := tr.native.LookupTree(treeID)
	if err != nil {
		return Hash{}, err
	}
	defer tree.Free()

	author := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: authored}
	committer := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: committed}

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		head.Free()

		if lookupErr != nil {
			return Hash{}, lookupErr
		}

		parents = append(parents, headCommit)
	}

	oid, err := tr.native.CreateCommit("HEAD", author, committer, message, tree, parents...)

	for _, parent := range parents {
		parent.Free()
	}

	if err != nil {
		return Hash{}, err
	}

	return HashFromOid(oid), nil
}

// Tag creates a lightweight tag pointing at hash.
func (tr *TestRepo) Tag(name string, hash Hash) error {
	commit, err := tr.native.LookupCommit(hash.ToOid())
	if err != nil {
		return err
	}
	defer commit.Free()

	_, err = tr.native.Tags.CreateLightweight(name, commit, false)

	return err
}

// Free releases the repository handle.
func (tr *TestRepo) Free() {
	if tr.native != nil {
		tr.native.Free()
		tr.native = nil
	}
}
