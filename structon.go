// Package structon converts fixed-layout in-memory records to and from
// a generic JSON tree, driven entirely by per-type field descriptors
// registered once per record type. No per-type conversion code is
// written by hand: the encoder and decoder walk the descriptor list
// recursively, reading and writing raw record memory through a narrow
// internal boundary.
//
// Lifecycle: register every record type up front (single-threaded, or
// under a caller-held lock), then encode/decode freely from any number
// of goroutines. The Registry is not internally synchronized; after
// the registration phase it is effectively immutable and safe to read
// concurrently. A single record must not be mutated while a call is in
// flight on it.
package structon

import (
	"errors"
	"fmt"
)

// Fatal error kinds. Anything else that goes wrong during conversion
// stays field-local: the field degrades to a marker value (encode) or
// is skipped (decode), is logged, and is reported as a FieldError.
var (
	ErrNotRegistered = errors.New("structon: type not registered")
	ErrTypeMismatch  = errors.New("structon: tree value is not an object")
	ErrParse         = errors.New("structon: malformed text input")
	ErrEmptyInput    = errors.New("structon: empty text input")

	ErrNotStruct    = errors.New("structon: expected struct")
	ErrNotStructPtr = errors.New("structon: expected pointer to struct")
)

// FieldError reports one field that could not be converted. The path
// uses dots for nesting and [i] for array elements, e.g. "car.brand"
// or "points[2].x".
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error { return e.Err }

// prefixFieldErrors rewrites nested field errors under an outer path.
func prefixFieldErrors(dst []FieldError, prefix string, nested []FieldError) []FieldError {
	for _, fe := range nested {
		dst = append(dst, FieldError{Field: prefix + "." + fe.Field, Err: fe.Err})
	}
	return dst
}
