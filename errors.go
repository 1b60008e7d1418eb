// FILE: simpleconf/errors.go
package simpleconf

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrConfigNotFound is returned when a required file or directory is
	// missing, or when a layered load finds no configuration files at all.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrUnsupportedFormat is returned for unrecognized file extensions,
	// unparsable content, and non-mapping payloads where a mapping is required.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")

	// ErrInterpolation is returned when a placeholder names an unset
	// environment variable and carries no fallback.
	ErrInterpolation = errors.New("interpolation failed")

	// ErrValidation covers override conflicts, structural conflicts and
	// failing user validators.
	ErrValidation = errors.New("configuration validation failed")

	// ErrStructureConflict is returned when a key path descends through a
	// value that is not a mapping.
	ErrStructureConflict = fmt.Errorf("%w: structural conflict", ErrValidation)

	// ErrLookup is the parent of all recoverable View lookup failures.
	ErrLookup = errors.New("lookup failed")

	// ErrNoField is returned by View.Field for an unknown field name.
	ErrNoField = fmt.Errorf("%w: no such field", ErrLookup)

	// ErrKeyNotFound is returned by View.Index and View.Select for an unknown key.
	ErrKeyNotFound = fmt.Errorf("%w: key not found", ErrLookup)
)
