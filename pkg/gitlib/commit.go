package gitlib

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrParentNotFound is returned when the requested parent commit is not found.
var ErrParentNotFound = errors.New("parent commit not found")

// Commit wraps a libgit2 commit.
type Commit struct {
	commit *git2go.Commit
}

// Hash returns the commit hash.
func (c *Commit) Hash() Hash {
	return HashFromOid(c.commit.Id())
}

// Author returns the commit author.
func (c *Commit) Author() Signature {
	return signatureFrom(c.commit.Author())
}

// Committer returns the commit committer.
func (c *Commit) Committer() Signature {
	return signatureFrom(c.commit.Committer())
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.commit.Message()
}

// NumParents returns the number of parent commits.
func (c *Commit) NumParents() int {
	return int(c.commit.ParentCount())
}

// Parent returns the nth parent commit.
func (c *Commit) Parent(n int) (*Commit, error) {
	if n < 0 || n >= c.NumParents() {
		return nil, ErrParentNotFound
	}

	parent := c.commit.Parent(uint(n))
	if parent == nil {
		return nil, ErrParentNotFound
	}

	return &Commit{commit: parent}, nil
}

// ParentHash returns the hash of the nth parent.
func (c *Commit) ParentHash(n int) Hash {
	return HashFromOid(c.commit.ParentId(uint(n)))
}

// Tree returns the tree associated with this commit.
func (c *Commit) Tree() (*Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get commit tree: %w", err)
	}

	return &Tree{tree: tree}, nil
}

// PathBlob returns the blob id stored at path, and whether path is a file in this commit.
func (c *Commit) PathBlob(path string) (Hash, bool, error) {
	tree, err := c.Tree()
	if err != nil {
		return Hash{}, false, err
	}
	defer tree.Free()

	entry, err := tree.EntryByPath(path)
	if errors.Is(err, ErrEntryNotFound) {
		return Hash{}, false, nil
	}

	if err != nil {
		return Hash{}, false, err
	}

	if !entry.IsBlob() {
		return Hash{}, false, nil
	}

	return entry.Hash(), true, nil
}

// Free releases the commit resources.
func (c *Commit) Free() {
	if c.commit != nil {
		c.commit.Free()
		c.commit = nil
	}
}
