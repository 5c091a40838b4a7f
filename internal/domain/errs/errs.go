// Package errs defines the error taxonomy every store and policy in the
// app resolves to before an error reaches a handler.
//
// Handlers switch on these three kinds only:
//   - ErrNotFound: the named user/task/group/title does not exist.
//   - ErrForbidden: a role or ownership check failed.
//   - ValidationError: bad or missing input; rendered inline.
//
// Stores translate driver-level failures (mongo.ErrNoDocuments, duplicate
// key errors) into one of these before returning, so no infrastructure
// error types leak past the store boundary.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports a rejected input field. It carries enough for the
// form layer to re-render the message next to the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundf wraps ErrNotFound with context about what was missing.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Forbiddenf wraps ErrForbidden with the denied action.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}
