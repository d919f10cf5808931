package timeparse

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognized means no date or time token was found in the phrase.
	ErrUnrecognized = errors.New("no recognizable date/time in phrase")

	// ErrPastInstant means the phrase resolved to an instant before the
	// reference time (beyond the grace window).
	ErrPastInstant = errors.New("resolved instant is in the past")
)

// Reason identifies why a phrase failed to resolve.
type Reason string

const (
	ReasonUnrecognized Reason = "unrecognized"
	ReasonPastInstant  Reason = "past_instant"
)

// ParseError carries the failing phrase so the caller can re-prompt the user.
type ParseError struct {
	Reason Reason
	Text   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Text, e.Reason)
}

func (e *ParseError) Unwrap() error {
	switch e.Reason {
	case ReasonPastInstant:
		return ErrPastInstant
	default:
		return ErrUnrecognized
	}
}
