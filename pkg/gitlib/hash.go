// Package gitlib wraps the libgit2 operations the comment lifecycle walker
// needs: path-scoped history, narrow checkouts and index listing.
package gitlib

import (
	"encoding/hex"
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

const (
	// HashSize is the size of a SHA-1 hash in bytes.
	HashSize = 20
	// HashHexSize is the size of a hex-encoded SHA-1 hash.
	HashHexSize = 40

	shortHashSize = 7
)

// ErrInvalidHash is returned when a string is not a 40 character hex hash.
var ErrInvalidHash = errors.New("invalid hash")

// Hash represents a git object hash (SHA-1).
type Hash [HashSize]byte

// ParseHash decodes a full hex object id.
func ParseHash(s string) (Hash, error) {
	var h Hash

	if len(s) != HashHexSize {
		return h, fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}

	_, err := hex.Decode(h[:], []byte(s))
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %q: %w", ErrInvalidHash, s, err)
	}

	return h, nil
}

// NewHash is ParseHash for literals known to be valid. Invalid input yields the zero hash.
func NewHash(s string) Hash {
	h, _ := ParseHash(s)

	return h
}

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	if oid != nil {
		copy(h[:], oid[:])
	}

	return h
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated hex form used in log lines.
func (h Hash) Short() string {
	return h.String()[:shortHashSize]
}

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ToOid converts Hash back to libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}
