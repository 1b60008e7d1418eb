// File: simpleconf/builder.go
package simpleconf

import (
	"fmt"
	"log/slog"
)

// Builder provides a fluent interface for a layered load with validation.
type Builder struct {
	loader     LayeredLoader
	overrides  map[string]any
	validators []sectionValidator // empty selector means the whole tree
	err        error
}

// NewBuilder creates a builder that loads DefaultLayers() unless told otherwise.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLayers sets the layer directories, lowest precedence first.
func (b *Builder) WithLayers(layers ...string) *Builder {
	b.loader.Layers = append([]string(nil), layers...)
	return b
}

// WithEnv sets the active environment name explicitly.
func (b *Builder) WithEnv(env string) *Builder {
	b.loader.Env = env
	return b
}

// WithEnvVar sets the variable consulted for the environment name when none
// is set explicitly.
func (b *Builder) WithEnvVar(name string) *Builder {
	b.loader.EnvVar = name
	return b
}

// WithLookup replaces the process environment for placeholder expansion and
// the environment-name variable.
func (b *Builder) WithLookup(lookup Lookup) *Builder {
	b.loader.Lookup = lookup
	return b
}

// WithLogger sets the logger used for debug output.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.loader.Logger = logger
	return b
}

// WithOverrides adds overrides applied after all files are merged. Keys may
// be dotted paths. Repeated calls accumulate; a later call wins per key.
func (b *Builder) WithOverrides(overrides map[string]any) *Builder {
	if b.overrides == nil {
		b.overrides = make(map[string]any, len(overrides))
	}
	for k, v := range overrides {
		b.overrides[k] = v
	}
	return b
}

// WithOverride adds a single override.
func (b *Builder) WithOverride(key string, value any) *Builder {
	if key == "" {
		b.err = fmt.Errorf("%w: override key cannot be empty", ErrValidation)
		return b
	}
	return b.WithOverrides(map[string]any{key: value})
}

// WithValidator adds a whole-configuration validator. Validators of both
// kinds run in the order they are added.
func (b *Builder) WithValidator(fn Validator) *Builder {
	if fn != nil {
		b.validators = append(b.validators, sectionValidator{fn: fn})
	}
	return b
}

// WithSectionValidator adds a validator for the mapping at a dotted selector.
// The build fails if the selector is missing or not a mapping.
func (b *Builder) WithSectionValidator(selector string, fn Validator) *Builder {
	if fn != nil {
		b.validators = append(b.validators, sectionValidator{selector: selector, fn: fn})
	}
	return b
}

// Build loads the configuration and runs the validators.
func (b *Builder) Build() (*View, error) {
	if b.err != nil {
		return nil, b.err
	}

	view, err := b.loader.Load(b.overrides)
	if err != nil {
		return nil, err
	}

	for i, sv := range b.validators {
		if sv.selector == "" {
			if err := runValidator(sv.fn, view, fmt.Sprintf("validator %d", i)); err != nil {
				return nil, err
			}
			continue
		}
		if err := runSectionValidator(sv, view); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *View {
	view, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return view
}

// BuildAndDecode builds the configuration and projects it onto target.
func (b *Builder) BuildAndDecode(target any) (*View, error) {
	view, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := view.Decode(target); err != nil {
		return nil, fmt.Errorf("failed to decode final config into target: %w", err)
	}
	return view, nil
}
