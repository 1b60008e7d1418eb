// FILE: simpleconf/validate.go
package simpleconf

import (
	"fmt"
)

// Validator inspects a loaded configuration and returns an error to reject it.
type Validator func(v *View) error

// sectionValidator binds a validator to a dotted selector; an empty selector
// means the whole tree.
type sectionValidator struct {
	selector string
	fn       Validator
}

// runValidator calls fn and translates any failure, returned error or panic,
// into an ErrValidation that carries the original message.
func runValidator(fn Validator, v *View, ref string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrValidation, ref, r)
		}
	}()
	if verr := fn(v); verr != nil {
		return fmt.Errorf("%w: %s: %w", ErrValidation, ref, verr)
	}
	return nil
}

// runSectionValidator resolves the selector, asserts it names a mapping and
// runs the validator on that section.
func runSectionValidator(sv sectionValidator, root *View) error {
	section, err := root.Select(sv.selector)
	if err != nil {
		return fmt.Errorf("%w: selector '%s': %w", ErrValidation, sv.selector, err)
	}
	view, err := EnsureSection(section, sv.selector)
	if err != nil {
		return err
	}
	return runValidator(sv.fn, view, "section '"+sv.selector+"'")
}
