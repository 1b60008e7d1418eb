// FILE: simpleconf/overrides.go
package simpleconf

import (
	"fmt"
	"sort"
)

// applyOverrides writes caller overrides into target, which the caller owns.
// Keys may be dotted paths. Mapping values recurse key by key into the
// existing section, creating it when absent; anything else is assigned,
// replacing whatever was there. Keys are applied in sorted order.
func applyOverrides(target Tree, overrides map[string]any) error {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, err := FromAny(overrides[key])
		if err != nil {
			return fmt.Errorf("%w: override %q: %w", ErrValidation, key, err)
		}
		if err := applyOverride(target, splitDotted(key), value, key); err != nil {
			return err
		}
	}
	return nil
}

func applyOverride(target Tree, segments []string, value Value, ref string) error {
	parent, err := descend(target, segments[:len(segments)-1])
	if err != nil {
		return fmt.Errorf("override %q: %w", ref, err)
	}
	leaf := segments[len(segments)-1]

	if value.kind != KindMap {
		parent[leaf] = value
		return nil
	}

	section, exists := parent[leaf]
	if !exists {
		section = Map(nil)
		parent[leaf] = section
	}
	if section.kind != KindMap {
		return fmt.Errorf("%w: cannot override non-mapping config section '%s' with a mapping",
			ErrValidation, ref)
	}

	for _, key := range value.m.Keys() {
		if err := applyOverride(section.m, splitDotted(key), value.m[key], ref+"."+key); err != nil {
			return err
		}
	}
	return nil
}
