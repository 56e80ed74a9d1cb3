package gitlib

import (
	"fmt"
	"sort"
)

// TrackedFiles lists the paths recorded in the index, like `git ls-files`.
func (r *Repository) TrackedFiles() ([]string, error) {
	index, err := r.repo.Index()
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer index.Free()

	count := index.EntryCount()
	seen := make(map[string]struct{}, count)
	paths := make([]string, 0, count)

	for i := range count {
		entry, entryErr := index.EntryByIndex(i)
		if entryErr != nil {
			return nil, fmt.Errorf("index entry %d: %w", i, entryErr)
		}

		// Conflicted paths appear once per stage.
		if _, dup := seen[entry.Path]; dup {
			continue
		}

		seen[entry.Path] = struct{}{}
		paths = append(paths, entry.Path)
	}

	sort.Strings(paths)

	return paths, nil
}
