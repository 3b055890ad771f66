package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable marks any failure of the store to execute a query.
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidRequest     = errors.New("invalid request")
)

// BackendError wraps a store failure with the operation that hit it.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("catalog: %s: %v: %v", e.Op, ErrBackendUnavailable, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool { return target == ErrBackendUnavailable }

func backendErr(op string, err error) error {
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
