// FILE: simpleconf/value.go
package simpleconf

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// maxNestingDepth bounds FromAny recursion; parsed content never gets close.
const maxNestingDepth = 256

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindMap
	KindList
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of a configuration tree: a scalar, a mapping or a sequence.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	m    Tree
	l    []Value
}

// Tree is a mapping from keys to values. It is the interchange format between
// sources, the merger, the resolver and views.
type Tree map[string]Value

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating-point number.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Map wraps a tree. A nil tree becomes an empty mapping.
func Map(t Tree) Value {
	if t == nil {
		t = Tree{}
	}
	return Value{kind: KindMap, m: t}
}

// List wraps a sequence.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, l: items}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsMap reports whether v is a mapping.
func (v Value) IsMap() bool { return v.kind == KindMap }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsMap() (Tree, bool)      { return v.m, v.kind == KindMap }
func (v Value) AsList() ([]Value, bool)  { return v.l, v.kind == KindList }

// Interface converts v into plain Go values: map[string]any, []any, bool,
// int64, float64, string or nil. The result shares nothing with v.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindMap:
		return v.m.Interface()
	case KindList:
		out := make([]any, len(v.l))
		for i, item := range v.l {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		return Value{kind: KindMap, m: v.m.Clone()}
	case KindList:
		items := make([]Value, len(v.l))
		for i, item := range v.l {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, l: items}
	default:
		return v
	}
}

// Equal reports whether v and other hold structurally identical content.
// Int and Float never compare equal to each other.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case KindString:
		return v.s == other.s
	case KindMap:
		return v.m.Equal(other.m)
	case KindList:
		if len(v.l) != len(other.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(other.l[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders scalars the way they would appear in a config file and
// containers in a compact JSON-like form.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprintf("%v", v.Interface())
		}
		return string(data)
	}
}

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = v.Clone()
	}
	return out
}

// Interface converts t into a detached map[string]any.
func (t Tree) Interface() map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = v.Interface()
	}
	return out
}

// Equal reports whether t and other hold the same keys with equal values.
func (t Tree) Equal(other Tree) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the keys of t in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TreeFromMap converts a plain Go mapping into a fresh Tree.
func TreeFromMap(data map[string]any) (Tree, error) {
	v, err := FromAny(data)
	if err != nil {
		return nil, err
	}
	return v.m, nil
}

// FromAny converts parser output or caller literals into a Value. Nested
// maps, slices and arrays are copied, so the result never aliases the input.
func FromAny(data any) (Value, error) {
	return fromAny(data, 0)
}

func fromAny(data any, depth int) (Value, error) {
	if depth > maxNestingDepth {
		return Value{}, fmt.Errorf("value nesting exceeds %d levels", maxNestingDepth)
	}

	switch d := data.(type) {
	case nil:
		return Null(), nil
	case Value:
		return d.Clone(), nil
	case Tree:
		return Map(d.Clone()), nil
	case *View:
		if d == nil {
			return Null(), nil
		}
		return Map(d.data.Clone()), nil
	case bool:
		return Bool(d), nil
	case string:
		return String(d), nil
	case int:
		return Int(int64(d)), nil
	case int8:
		return Int(int64(d)), nil
	case int16:
		return Int(int64(d)), nil
	case int32:
		return Int(int64(d)), nil
	case int64:
		return Int(d), nil
	case uint8:
		return Int(int64(d)), nil
	case uint16:
		return Int(int64(d)), nil
	case uint32:
		return Int(int64(d)), nil
	case uint, uint64:
		u := reflect.ValueOf(d).Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("unsigned integer %d overflows int64", u)
		}
		return Int(int64(u)), nil
	case float32:
		return Float(float64(d)), nil
	case float64:
		return Float(d), nil
	case json.Number:
		if i, err := d.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := d.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid JSON number %q: %w", d.String(), err)
		}
		return Float(f), nil
	case time.Time:
		return String(d.Format(time.RFC3339Nano)), nil
	case time.Duration:
		return String(d.String()), nil
	case map[string]any:
		out := make(Tree, len(d))
		for k, item := range d {
			v, err := fromAny(item, depth+1)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = v
		}
		return Map(out), nil
	case []any:
		items := make([]Value, len(d))
		for i, item := range d {
			v, err := fromAny(item, depth+1)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return List(items...), nil
	case fmt.Stringer:
		// TOML local dates and times land here.
		return String(d.String()), nil
	}

	return fromReflect(reflect.ValueOf(data), depth)
}

// fromReflect handles typed maps and slices (map[any]any, []string, ...).
func fromReflect(rv reflect.Value, depth int) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromAny(rv.Elem().Interface(), depth+1)
	case reflect.Map:
		out := make(Tree, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			v, err := fromAny(iter.Value().Interface(), depth+1)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = v
		}
		return Map(out), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List(), nil
		}
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := fromAny(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return List(items...), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return Value{}, fmt.Errorf("unsigned integer %d overflows int64", rv.Uint())
		}
		return Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", rv.Interface())
}

// joinPath appends key to a dotted diagnostic address.
func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
