// FILE: simpleconf/merge.go
package simpleconf

// Merge returns a new tree holding base overlaid with overlay. Neither input
// is modified. Where both sides hold a mapping under the same key the merge
// recurses; in every other case the overlay value replaces the base value
// wholesale, sequences included.
func Merge(base, overlay Tree) Tree {
	merged := base.Clone()
	mergeInto(merged, overlay)
	return merged
}

// mergeInto overlays overlay onto dst in place. dst must be exclusively owned
// by the caller; overlay values are deep-copied.
func mergeInto(dst, overlay Tree) {
	for key, ov := range overlay {
		if bv, exists := dst[key]; exists && bv.kind == KindMap && ov.kind == KindMap {
			mergeInto(bv.m, ov.m)
			continue
		}
		dst[key] = ov.Clone()
	}
}
