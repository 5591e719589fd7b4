package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCommitted = errors.New("classification already inserted")
	ErrNotCollected     = errors.New("no collected data; collect a classification first")
	ErrNotInserted      = errors.New("no data inserted this session; insert before running queries")
	ErrQueryFailed      = errors.New("query failed")
)

// TransportError reports a failed call to the remote collection API: network
// failure, timeout, non-2xx status or an undecodable body. A fetch that hits a
// TransportError returns nothing partial.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote API returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StoreError reports a failed write to one table. Tables written before the
// failing one are not rolled back.
type StoreError struct {
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store write to %s failed: %v", e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidationError rejects user input before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError is shorthand for &ValidationError{Field: field, Message: msg}.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// QueryError wraps a failure while executing a read-only query. It matches
// ErrQueryFailed with errors.Is.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() []error { return []error{ErrQueryFailed, e.Err} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsStore reports whether err is (or wraps) a StoreError.
func IsStore(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}
