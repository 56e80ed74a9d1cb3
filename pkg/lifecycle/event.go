// Package lifecycle replays a file's history, diffs the comment sets of
// successive revisions and accumulates when each comment text was introduced
// and removed.
package lifecycle

import "time"

// EventKind is the direction of a comment transition.
type EventKind int

// Event kinds.
const (
	Introduced EventKind = iota
	Removed
)

// String returns the lowercase kind name.
func (k EventKind) String() string {
	if k == Removed {
		return "removed"
	}

	return "introduced"
}

// Event records one comment appearing in or disappearing from one file.
type Event struct {
	When   time.Time
	Path   string
	Text   string
	Commit string
	Kind   EventKind
}
