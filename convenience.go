// File: simpleconf/convenience.go
package simpleconf

import (
	"fmt"
	"sort"
	"strings"
)

// Load runs a layered load over layers with the environment name taken from
// APP_ENV and placeholders expanded from the process environment.
func Load(layers ...string) (*View, error) {
	return NewBuilder().WithLayers(layers...).Build()
}

// MustLoad is like Load but panics on error.
func MustLoad(layers ...string) *View {
	view, err := Load(layers...)
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}
	return view
}

// Compose merges sources in order with a default Manager.
func Compose(sources ...Source) (*View, error) {
	return NewManager(sources).Load()
}

// Debug returns every leaf of the view as sorted "dotted.key = value" lines.
func (v *View) Debug() string {
	flat := v.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		val, err := FromAny(flat[k])
		if err != nil {
			fmt.Fprintf(&b, "%s = %v\n", joinPath(v.path, k), flat[k])
			continue
		}
		fmt.Fprintf(&b, "%s = %s\n", joinPath(v.path, k), val.String())
	}
	return b.String()
}
