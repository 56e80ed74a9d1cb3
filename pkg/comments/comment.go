// Package comments extracts comment text from source files with line-oriented
// heuristic grammars. Each grammar is a small finite-state machine driven one
// line at a time; no syntax tree is built.
package comments

import (
	"sort"
	"strings"
)

// Comment is normalized comment text. Two comments are the same comment when
// their text is byte-for-byte equal.
type Comment = string

// Normalize collapses newlines into single spaces and trims surrounding whitespace.
func Normalize(text string) Comment {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// Set is the distinct comments of one file snapshot.
type Set map[Comment]struct{}

// NewSet builds a set from the given texts, normalizing each.
func NewSet(texts ...string) Set {
	set := make(Set, len(texts))
	for _, text := range texts {
		set.Add(text)
	}

	return set
}

// Add normalizes text and inserts it.
func (s Set) Add(text string) {
	s[Normalize(text)] = struct{}{}
}

// Has reports whether the comment is present.
func (s Set) Has(c Comment) bool {
	_, ok := s[c]

	return ok
}

// Len returns the number of distinct comments.
func (s Set) Len() int {
	return len(s)
}

// Diff returns the comments in s that are not in other, sorted.
func (s Set) Diff(other Set) []Comment {
	var out []Comment

	for c := range s {
		if !other.Has(c) {
			out = append(out, c)
		}
	}

	sort.Strings(out)

	return out
}

// Sorted returns all comments in lexical order.
func (s Set) Sorted() []Comment {
	out := make([]Comment, 0, len(s))
	for c := range s {
		out = append(out, c)
	}

	sort.Strings(out)

	return out
}
