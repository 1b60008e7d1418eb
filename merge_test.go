// FILE: simpleconf/merge_test.go
package simpleconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTree(t *testing.T, data map[string]any) Tree {
	t.Helper()
	tree, err := TreeFromMap(data)
	require.NoError(t, err)
	return tree
}

func TestMerge(t *testing.T) {
	t.Run("OverlayWinsForScalars", func(t *testing.T) {
		base := mustTree(t, map[string]any{"a": 1, "b": "x", "nested": map[string]any{"k": true}})
		overlay := mustTree(t, map[string]any{"a": 2, "nested": map[string]any{"k": false, "extra": 1.5}})

		merged := Merge(base, overlay)
		assert.Equal(t, map[string]any{
			"a":      int64(2),
			"b":      "x",
			"nested": map[string]any{"k": false, "extra": 1.5},
		}, merged.Interface())
	})

	t.Run("Identity", func(t *testing.T) {
		a := mustTree(t, map[string]any{"x": map[string]any{"y": []any{1, 2}}, "z": nil})
		assert.True(t, Merge(a, Tree{}).Equal(a))
		assert.True(t, Merge(Tree{}, a).Equal(a))
		assert.True(t, Merge(nil, a).Equal(a))
	})

	t.Run("SequencesReplaceWholesale", func(t *testing.T) {
		base := mustTree(t, map[string]any{"hosts": []any{"a", "b", "c"}})
		overlay := mustTree(t, map[string]any{"hosts": []any{"d"}})
		assert.Equal(t, []any{"d"}, Merge(base, overlay).Interface()["hosts"])
	})

	t.Run("TypeMismatchOverlayWins", func(t *testing.T) {
		base := mustTree(t, map[string]any{"db": map[string]any{"host": "x"}, "port": 1})
		overlay := mustTree(t, map[string]any{"db": "sqlite://memory", "port": map[string]any{"http": 80}})

		merged := Merge(base, overlay)
		assert.Equal(t, "sqlite://memory", merged.Interface()["db"])
		assert.Equal(t, map[string]any{"http": int64(80)}, merged.Interface()["port"])
	})

	t.Run("InputsUntouched", func(t *testing.T) {
		base := mustTree(t, map[string]any{"s": map[string]any{"a": 1}})
		overlay := mustTree(t, map[string]any{"s": map[string]any{"b": 2}})
		baseCopy, overlayCopy := base.Clone(), overlay.Clone()

		_ = Merge(base, overlay)
		assert.True(t, base.Equal(baseCopy))
		assert.True(t, overlay.Equal(overlayCopy))
	})

	t.Run("DefensiveCopy", func(t *testing.T) {
		base := Tree{}
		overlay := mustTree(t, map[string]any{"s": map[string]any{"b": 2}, "l": []any{map[string]any{"x": 1}}})
		merged := Merge(base, overlay)

		overlay["s"].m["b"] = Int(99)
		overlay["l"].l[0].m["x"] = Int(99)

		assert.Equal(t, map[string]any{
			"s": map[string]any{"b": int64(2)},
			"l": []any{map[string]any{"x": int64(1)}},
		}, merged.Interface())
	})

	t.Run("ScalarKeyTakesOverlayValue", func(t *testing.T) {
		a := mustTree(t, map[string]any{"k": 1, "only_a": "a"})
		b := mustTree(t, map[string]any{"k": 2, "only_b": "b"})
		merged := Merge(a, b)
		assert.True(t, merged["k"].Equal(b["k"]))
		assert.True(t, merged["only_a"].Equal(String("a")))
		assert.True(t, merged["only_b"].Equal(String("b")))
	})

	t.Run("LeftToRightChain", func(t *testing.T) {
		a := mustTree(t, map[string]any{"k": "a", "s": map[string]any{"x": 1}})
		b := mustTree(t, map[string]any{"k": "b", "s": map[string]any{"y": 2}})
		c := mustTree(t, map[string]any{"k": "c"})

		merged := Merge(Merge(a, b), c)
		assert.Equal(t, map[string]any{
			"k": "c",
			"s": map[string]any{"x": int64(1), "y": int64(2)},
		}, merged.Interface())
	})
}
