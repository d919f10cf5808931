// Package vapi is the inbound HTTP delivery for the voice platform's tool
// calls. Tool endpoints always answer 200 with a spoken-English result
// string in the platform's tool response contract; HTTP error codes are
// reserved for malformed or unauthorized requests.
package vapi

import (
	"voice-scheduling-agent/internal/bookinglog"
	"voice-scheduling-agent/internal/scheduling"
	pkgLog "voice-scheduling-agent/pkg/log"
)

type Handler struct {
	uc       scheduling.UseCase
	bookings bookinglog.Repository // nil hides the bookings listing
	security *SecurityValidator
	l        pkgLog.Logger
}

func NewHandler(
	uc scheduling.UseCase,
	bookings bookinglog.Repository,
	securityConfig SecurityConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		uc:       uc,
		bookings: bookings,
		security: NewSecurityValidator(securityConfig),
		l:        l,
	}
}
