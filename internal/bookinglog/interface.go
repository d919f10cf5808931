// Package bookinglog records every successfully created booking for audit
// and review. It is an append-mostly log, not the source of truth; the
// calendar provider is.
package bookinglog

import (
	"context"

	"voice-scheduling-agent/internal/model"
)

// Repository persists booking records.
type Repository interface {
	// Insert appends a booking record and fills in its ID and CreatedAt.
	Insert(ctx context.Context, booking *model.Booking) error
	// Recent returns the most recent bookings, newest first.
	Recent(ctx context.Context, limit int) ([]model.Booking, error)
}
