// File: simpleconf/doc.go

// Package simpleconf composes configuration from layered directories, single
// files, environment variables and in-memory overlays, and exposes the result
// through a read-only View with dotted-path lookup and type coercion.
//
// Features:
//   - Deterministic deep merge: mappings merge key by key, everything else
//     (scalars, sequences, type mismatches) is replaced by the later layer
//   - YAML, JSON and TOML files, mixed freely
//   - Directory projection: conf/base/db/primary.yml lands under db.primary
//   - Environment folders: with APP_ENV=prod, conf/base/prod overrides conf/base
//   - ${NAME}, ${NAME:-fallback} placeholders expanded after merging
//   - Dotted overrides ("optimizer.lr": 0.01)
//   - Validators, whole-tree or scoped to a section
//   - Struct projection through mapstructure, YAML/JSON dump
//
// Quick Start:
//
//	cfg, err := simpleconf.NewBuilder().
//	    WithLayers("conf/base", "conf/local").
//	    WithEnv("prod").
//	    WithOverrides(map[string]any{"service.retries": 5}).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	url := cfg.String("service.url", "http://localhost")
//	debug := cfg.Bool("service.debug", false)
//
// Composing explicit sources:
//
//	m := simpleconf.NewManager([]simpleconf.Source{
//	    simpleconf.NewDirectorySource("conf/base"),
//	    simpleconf.NewFileSource("/etc/app/overrides.yaml"),
//	    simpleconf.NewEnvSource("APP"), // APP__DB__HOST=x sets db.host
//	})
//	cfg, err := m.Load()
//
// Precedence (lowest to highest) in a layered load:
//  1. Layers in the order given, each followed by its environment folder
//  2. Files within a directory in path order
//  3. Overrides
//
// Thread Safety:
// A View is never mutated after construction and may be shared between
// goroutines. Loaders and managers hold no state between calls, but sources
// must not be reconfigured while a load is in flight.
package simpleconf
