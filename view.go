// FILE: simpleconf/view.go
package simpleconf

import (
	"encoding/json"
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

// View is a read-only accessor over one mapping node of a finalized
// configuration tree. Child views are created on access and share the
// underlying tree; nothing in the API mutates it.
type View struct {
	data Tree
	path string // dotted address, diagnostics only

	aliasOnce sync.Once
	aliases   map[string]string // sanitized identifier -> original key
}

// NewView wraps tree. The view takes ownership of tree; callers must not
// modify it afterwards.
func NewView(tree Tree) *View {
	if tree == nil {
		tree = Tree{}
	}
	return &View{data: tree}
}

func newChildView(tree Tree, path string) *View {
	return &View{data: tree, path: path}
}

// Path returns the dotted address of the view within the root configuration.
// The root view has an empty path.
func (v *View) Path() string { return v.path }

// Len returns the number of keys in the view.
func (v *View) Len() int { return len(v.data) }

// Keys returns the view's keys in sorted order.
func (v *View) Keys() []string { return v.data.Keys() }

// Field resolves name as an attribute: the exact key first, then the key
// whose sanitized identifier form equals name (max-conns is reachable as
// max_conns, 2fa as _2fa, type as type_).
func (v *View) Field(name string) (any, error) {
	key, ok := v.resolveKey(name)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoField, name, v.where())
	}
	return v.wrap(key, v.data[key]), nil
}

// Index resolves key like Field but reports a miss as ErrKeyNotFound.
func (v *View) Index(key string) (any, error) {
	resolved, ok := v.resolveKey(key)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrKeyNotFound, key, v.where())
	}
	return v.wrap(resolved, v.data[resolved]), nil
}

// resolveKey maps name to a stored key. Exact keys win over aliases.
func (v *View) resolveKey(name string) (string, bool) {
	if _, ok := v.data[name]; ok {
		return name, true
	}
	v.aliasOnce.Do(v.buildAliases)
	key, ok := v.aliases[name]
	return key, ok
}

// Section returns the child view at a dotted path, failing when the path is
// missing or does not lead to a mapping.
func (v *View) Section(path string) (*View, error) {
	sel, err := v.Select(path)
	if err != nil {
		return nil, err
	}
	return EnsureSection(sel, path)
}

// Select walks a dotted path through nested mappings and returns the value
// found there, failing with ErrKeyNotFound when a segment is missing or an
// intermediate is not a mapping.
func (v *View) Select(path string) (any, error) {
	if path == "" {
		return v, nil
	}
	value, parent, key, ok := v.lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrKeyNotFound, path, v.where())
	}
	return parent.wrap(key, value), nil
}

// Has reports whether a dotted path resolves.
func (v *View) Has(path string) bool {
	_, _, _, ok := v.lookup(path)
	return ok
}

// Get walks a dotted path through nested mappings and returns the value found
// there, or def when any segment is missing or an intermediate is not a
// mapping. Mappings are returned as *View and sequences as []any.
func (v *View) Get(path string, def any) any {
	value, parent, key, ok := v.lookup(path)
	if !ok {
		return def
	}
	return parent.wrap(key, value)
}

// Bool returns the value at path coerced with the boolean token table
// (1/true/yes/on, 0/false/no/off), or def when missing or not coercible.
func (v *View) Bool(path string, def bool) bool {
	return getAs(v, path, def, toBool)
}

// Int64 returns the value at path as an int64, or def.
func (v *View) Int64(path string, def int64) int64 {
	return getAs(v, path, def, toInt64)
}

// Int returns the value at path as an int, or def. Values outside the
// platform's int range also yield def.
func (v *View) Int(path string, def int) int {
	return getAs(v, path, def, toInt)
}

// Float64 returns the value at path as a float64, or def.
func (v *View) Float64(path string, def float64) float64 {
	return getAs(v, path, def, toFloat64)
}

// String returns the scalar at path rendered as a string, or def.
func (v *View) String(path string, def string) string {
	return getAs(v, path, def, toString)
}

// Duration returns the value at path parsed as a time.Duration, or def.
func (v *View) Duration(path string, def time.Duration) time.Duration {
	return getAs(v, path, def, toDuration)
}

func getAs[T any](v *View, path string, def T, convert func(any) (T, error)) T {
	value, _, _, ok := v.lookup(path)
	if !ok {
		return def
	}
	out, err := convert(value.Interface())
	if err != nil {
		return def
	}
	return out
}

// ToMap returns a detached deep copy of the view's content.
func (v *View) ToMap() map[string]any {
	return v.data.Interface()
}

// Tree returns a detached deep copy of the view's content as a Tree.
func (v *View) Tree() Tree {
	return v.data.Clone()
}

// Flatten returns every leaf keyed by its dotted path relative to the view.
// Sequences are leaves.
func (v *View) Flatten() map[string]any {
	return flattenTree(v.data, "")
}

// WithOverrides returns a new root view holding a copy of this view's content
// with overrides applied (see LayeredLoader.Load for the override rules).
func (v *View) WithOverrides(overrides map[string]any) (*View, error) {
	cloned := v.data.Clone()
	if err := applyOverrides(cloned, overrides); err != nil {
		return nil, err
	}
	return NewView(cloned), nil
}

// GoString renders the view as indented JSON for debugging.
func (v *View) GoString() string {
	data, err := json.MarshalIndent(v.data.Interface(), "", "  ")
	if err != nil {
		return fmt.Sprintf("View(path=%q, %v)", v.path, v.data.Interface())
	}
	return fmt.Sprintf("View(path=%q, %s)", v.path, data)
}

// EnsureSection asserts that value, typically obtained from Select or Get,
// is a mapping view. ref names the value in the error.
func EnsureSection(value any, ref string) (*View, error) {
	view, ok := value.(*View)
	if !ok || view == nil {
		return nil, fmt.Errorf("%w: expected a mapping at '%s', got %T", ErrValidation, ref, value)
	}
	return view, nil
}

// lookup walks path and returns the value, the view that holds it and the
// stored key it was found under. Segments resolve like Index.
func (v *View) lookup(path string) (Value, *View, string, bool) {
	if path == "" {
		return Value{}, nil, "", false
	}
	segments := splitDotted(path)
	current := v
	for i, segment := range segments {
		key, ok := current.resolveKey(segment)
		if !ok {
			return Value{}, nil, "", false
		}
		value := current.data[key]
		if i == len(segments)-1 {
			return value, current, key, true
		}
		if value.kind != KindMap {
			return Value{}, nil, "", false
		}
		current = newChildView(value.m, joinPath(current.path, key))
	}
	return Value{}, nil, "", false
}

// wrap converts a stored value into what accessors hand out: *View for
// mappings, []any for sequences with mapping elements wrapped, native
// scalars otherwise.
func (v *View) wrap(key string, value Value) any {
	return wrapValue(value, joinPath(v.path, key))
}

func wrapValue(value Value, path string) any {
	switch value.kind {
	case KindMap:
		return newChildView(value.m, path)
	case KindList:
		out := make([]any, len(value.l))
		for i, item := range value.l {
			out[i] = wrapValue(item, path+"["+strconv.Itoa(i)+"]")
		}
		return out
	default:
		return value.Interface()
	}
}

func (v *View) where() string {
	if v.path == "" {
		return "<root>"
	}
	return v.path
}

func (v *View) buildAliases() {
	v.aliases = make(map[string]string)
	for _, key := range v.data.Keys() {
		alias := sanitizeIdentifier(key)
		if alias == key {
			continue
		}
		if _, taken := v.aliases[alias]; !taken {
			v.aliases[alias] = key
		}
	}
}

// sanitizeIdentifier turns an arbitrary key into an identifier-like alias.
func sanitizeIdentifier(key string) string {
	clean := strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if clean == "" {
		return key
	}
	if unicode.IsDigit([]rune(clean)[0]) {
		clean = "_" + clean
	}
	if token.IsKeyword(clean) {
		clean += "_"
	}
	return clean
}

// flattenTree converts a nested tree to a flat map with dot-notation paths.
func flattenTree(t Tree, prefix string) map[string]any {
	flat := make(map[string]any)
	for key, value := range t {
		path := joinPath(prefix, key)
		if value.kind == KindMap && len(value.m) > 0 {
			for subPath, subValue := range flattenTree(value.m, path) {
				flat[subPath] = subValue
			}
			continue
		}
		flat[path] = value.Interface()
	}
	return flat
}
