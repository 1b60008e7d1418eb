// FILE: simpleconf/path.go
package simpleconf

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// projectKeyPath maps a file under root to its key path: every intermediate
// directory name followed by the file name without its extension. A file
// that is root itself projects to an empty key path.
func projectKeyPath(root, file string) ([]string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return nil, fmt.Errorf("cannot project '%s' relative to '%s': %w", file, root, err)
	}
	if rel == "." {
		return nil, nil
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	last := len(parts) - 1
	parts[last] = strings.TrimSuffix(parts[last], filepath.Ext(parts[last]))
	return parts, nil
}

// inject places value at keyPath inside acc. An empty key path requires a
// mapping, which is merged into acc directly. Intermediate nodes are created
// as needed; descending through a non-mapping fails. At the leaf a mapping
// merges into an existing mapping, anything else replaces.
func inject(acc Tree, keyPath []string, value Value) error {
	if len(keyPath) == 0 {
		if value.kind != KindMap {
			return fmt.Errorf("%w: root-level config must be a mapping, got %s", ErrUnsupportedFormat, value.kind)
		}
		mergeInto(acc, value.m)
		return nil
	}

	parent, err := descend(acc, keyPath[:len(keyPath)-1])
	if err != nil {
		return err
	}

	leaf := keyPath[len(keyPath)-1]
	if existing, ok := parent[leaf]; ok && existing.kind == KindMap && value.kind == KindMap {
		mergeInto(existing.m, value.m)
		return nil
	}
	parent[leaf] = value.Clone()
	return nil
}

// descend walks segments from acc, creating empty mappings for missing
// segments, and returns the innermost mapping.
func descend(acc Tree, segments []string) (Tree, error) {
	current := acc
	for i, segment := range segments {
		next, exists := current[segment]
		if !exists {
			created := Tree{}
			current[segment] = Map(created)
			current = created
			continue
		}
		if next.kind != KindMap {
			return nil, fmt.Errorf("%w: %q is a %s, cannot descend into it",
				ErrStructureConflict, strings.Join(segments[:i+1], "."), next.kind)
		}
		current = next.m
	}
	return current, nil
}

// splitDotted splits a dotted key into its segments.
func splitDotted(key string) []string {
	return strings.Split(key, ".")
}

// sortConfigFiles orders paths relative to root segment by segment, so that
// a directory's contents sort with the directory name itself.
func sortConfigFiles(root string, files []string) {
	segments := func(p string) []string {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		return strings.Split(filepath.ToSlash(rel), "/")
	}
	slices.SortFunc(files, func(a, b string) int {
		return slices.Compare(segments(a), segments(b))
	})
}
