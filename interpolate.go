// FILE: simpleconf/interpolate.go
package simpleconf

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// placeholderPattern matches ${NAME}, ${NAME:-fallback} and ${NAME:fallback}.
// Group 1 is the name, group 2 the fallback (absent when there is no colon).
var placeholderPattern = regexp.MustCompile(`\$\{([A-Z0-9_]+)(?::-?([^}]*))?\}`)

// Lookup resolves an environment variable name.
type Lookup func(name string) (string, bool)

// EnvLookup returns a Lookup backed by the process environment.
func EnvLookup() Lookup {
	return os.LookupEnv
}

// MapLookup returns a Lookup backed by a fixed table.
func MapLookup(env map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

// MissingEnvVar marks a placeholder that could not be resolved in lenient mode.
type MissingEnvVar struct {
	Name string
	Path string // dotted address of the string that held the placeholder
}

// String returns the placeholder form of the marker.
func (m MissingEnvVar) String() string {
	return "${" + m.Name + "}"
}

// Resolve returns a copy of tree with every placeholder in every string leaf
// expanded through lookup. A placeholder whose variable is unset and which has
// no fallback fails the whole call with ErrInterpolation.
func Resolve(tree Tree, lookup Lookup) (Tree, error) {
	r := resolver{lookup: normalizeLookup(lookup)}
	out, err := r.tree(tree, "")
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveLenient is Resolve without the hard failure: unresolved placeholders
// are left in place in their ${NAME} form and reported, ordered by path.
func ResolveLenient(tree Tree, lookup Lookup) (Tree, []MissingEnvVar) {
	r := resolver{lookup: normalizeLookup(lookup), lenient: true}
	out, _ := r.tree(tree, "")
	slices.SortStableFunc(r.missing, func(a, b MissingEnvVar) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out, r.missing
}

func normalizeLookup(lookup Lookup) Lookup {
	if lookup == nil {
		return func(string) (string, bool) { return "", false }
	}
	return lookup
}

type resolver struct {
	lookup  Lookup
	lenient bool
	missing []MissingEnvVar
}

func (r *resolver) tree(t Tree, path string) (Tree, error) {
	out := make(Tree, len(t))
	for key, v := range t {
		resolved, err := r.value(v, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = resolved
	}
	return out, nil
}

func (r *resolver) value(v Value, path string) (Value, error) {
	switch v.kind {
	case KindMap:
		t, err := r.tree(v.m, path)
		if err != nil {
			return Value{}, err
		}
		return Map(t), nil
	case KindList:
		items := make([]Value, len(v.l))
		for i, item := range v.l {
			resolved, err := r.value(item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return Value{}, err
			}
			items[i] = resolved
		}
		return List(items...), nil
	case KindString:
		s, err := r.expand(v.s, path)
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	default:
		return v, nil
	}
}

// expand substitutes every placeholder occurrence in s independently.
func (r *resolver) expand(s, path string) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		last = m[1]

		name := s[m[2]:m[3]]
		if value, ok := r.lookup(name); ok {
			b.WriteString(value)
			continue
		}
		if m[4] >= 0 {
			b.WriteString(s[m[4]:m[5]])
			continue
		}
		if r.lenient {
			marker := MissingEnvVar{Name: name, Path: path}
			r.missing = append(r.missing, marker)
			b.WriteString(marker.String())
			continue
		}
		return "", fmt.Errorf("%w: environment variable %q is required but not set (at %s)", ErrInterpolation, name, path)
	}
	b.WriteString(s[last:])
	return b.String(), nil
}
