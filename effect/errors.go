package effect

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	// ErrBadMagic is returned when the data does not start with the bundle magic.
	ErrBadMagic = errors.New("effect: bad magic")

	// ErrUnsupportedVersion is returned for format versions other than 9 and 10.
	ErrUnsupportedVersion = errors.New("effect: unsupported version")

	// ErrSignatureMismatch is returned when the trailing signature of a
	// current-dialect bundle is missing or wrong.
	ErrSignatureMismatch = errors.New("effect: trailing signature mismatch")

	// ErrUnsupportedParameter is returned for parameter types the runtime
	// cannot store, such as string literals.
	ErrUnsupportedParameter = errors.New("effect: unsupported parameter type")

	// ErrNoTechnique is returned when a bundle has no technique or a
	// technique has no pass.
	ErrNoTechnique = errors.New("effect must contain at least one technique and pass")

	// ErrInvalidValue is returned for out-of-range enumerations and counts.
	ErrInvalidValue = errors.New("effect: invalid value")

	// ErrInvalidReference is returned when an index does not address a
	// compatible object.
	ErrInvalidReference = errors.New("effect: invalid reference")
)

// Runtime errors.
var (
	// ErrTypeMismatch is returned when a parameter write does not match the
	// parameter's type or size.
	ErrTypeMismatch = errors.New("effect: parameter type mismatch")

	// ErrNotRepresentable is returned by Encode when a value does not fit
	// the target dialect.
	ErrNotRepresentable = errors.New("effect: value not representable in dialect")
)

// FormatError records where in the input a decode failed.
type FormatError struct {
	// Offset is the byte offset of the field that failed.
	Offset int
	// Field names what was being read.
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("effect: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
