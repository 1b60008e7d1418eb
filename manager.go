// FILE: simpleconf/manager.go
package simpleconf

import (
	"fmt"
	"log/slog"
)

// Manager composes a configuration from an ordered list of sources. Later
// sources override earlier ones with Merge semantics.
type Manager struct {
	sources     []Source
	validators  []Validator
	interpolate bool
	lookup      Lookup
	logger      *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithValidators appends whole-configuration validators, run in order.
func WithValidators(validators ...Validator) ManagerOption {
	return func(m *Manager) {
		for _, fn := range validators {
			if fn != nil {
				m.validators = append(m.validators, fn)
			}
		}
	}
}

// WithInterpolation toggles placeholder expansion. It is on by default.
func WithInterpolation(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.interpolate = enabled
	}
}

// WithLookup replaces the process environment for placeholder expansion.
func WithLookup(lookup Lookup) ManagerOption {
	return func(m *Manager) {
		m.lookup = lookup
	}
}

// WithManagerLogger sets the logger used for debug output.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager over sources.
func NewManager(sources []Source, opts ...ManagerOption) *Manager {
	m := &Manager{
		sources:     append([]Source(nil), sources...),
		interpolate: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.lookup == nil {
		m.lookup = EnvLookup()
	}
	m.logger = loggerOr(m.logger)
	return m
}

// Sources returns a copy of the configured source list.
func (m *Manager) Sources() []Source {
	return append([]Source(nil), m.sources...)
}

// Load merges every source, expands placeholders when enabled, and runs the
// validators against the result.
func (m *Manager) Load() (*View, error) {
	payload := Tree{}
	for _, source := range m.sources {
		fragment, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("config source '%s': %w", source.Name(), err)
		}
		mergeInto(payload, fragment)
		m.logger.Debug("merged config source", "source", source.Name(), "keys", len(fragment))
	}

	if m.interpolate {
		resolved, err := Resolve(payload, m.lookup)
		if err != nil {
			return nil, err
		}
		payload = resolved
	}

	view := NewView(payload)
	for i, fn := range m.validators {
		if err := runValidator(fn, view, fmt.Sprintf("validator %d", i)); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Reload is Load; nothing is cached between calls.
func (m *Manager) Reload() (*View, error) {
	return m.Load()
}
