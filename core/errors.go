package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// ExternalLookupError reports a failure of an external collaborator (e.g. the student directory).
// Callers absorb it: it is logged, never surfaced to the end user.
type ExternalLookupError struct {
	Source string
	Err    error
}

func NewExternalLookupError(source string, err error) error {
	return &ExternalLookupError{Source: source, Err: err}
}

func (err ExternalLookupError) Error() string {
	return err.Source + " lookup failed: " + err.Err.Error()
}

func (err ExternalLookupError) Unwrap() error { return err.Err }

func IsExternalLookup(err error) bool {
	_, ok := errors.Cause(err).(*ExternalLookupError)
	return ok
}
