package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the user-facing reason a request was rejected.
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// RemoteError is a non-2xx answer from the analysis service. Message holds the
// service's `error` text and may be empty.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote %d", e.Status)
	}
	return fmt.Sprintf("remote %d: %s", e.Status, e.Message)
}
