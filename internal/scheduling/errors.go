package scheduling

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the scheduling package.
var (
	ErrNotConfirmed    = errors.New("booking has not been confirmed by the caller")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidTitle    = errors.New("title is too long")
	ErrReadOnlySource  = errors.New("calendar source is read-only")
)

// ProviderErrorKind separates errors worth one silent retry from
// deterministic failures.
type ProviderErrorKind string

const (
	ProviderTransient    ProviderErrorKind = "transient"
	ProviderNonRetryable ProviderErrorKind = "non_retryable"
)

// ProviderError wraps a calendar provider failure with its retry class.
type ProviderError struct {
	Kind ProviderErrorKind
	Op   string // "fetch_busy" or "create_event"
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable provider failure.
func Transient(op string, err error) *ProviderError {
	return &ProviderError{Kind: ProviderTransient, Op: op, Err: err}
}

// NonRetryable wraps err as a deterministic provider failure.
func NonRetryable(op string, err error) *ProviderError {
	return &ProviderError{Kind: ProviderNonRetryable, Op: op, Err: err}
}

// IsTransient reports whether err is a provider failure likely to succeed
// on immediate retry.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ProviderTransient
}
