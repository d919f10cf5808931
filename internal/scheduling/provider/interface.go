package provider

import (
	"context"
	"time"

	"voice-scheduling-agent/internal/scheduling"
)

// CalendarProvider is the narrow outbound contract the orchestrator
// consumes. Implementations must return *scheduling.ProviderError so the
// orchestrator can tell transient failures from deterministic ones.
type CalendarProvider interface {
	// FetchBusyIntervals returns the occupied ranges within [from, to),
	// in UTC, earliest first.
	FetchBusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]scheduling.BusyInterval, error)

	// CreateEvent persists an event and returns its reference.
	CreateEvent(ctx context.Context, input CreateEventInput) (scheduling.EventRef, error)
}

// CreateEventInput is the input for CreateEvent.
type CreateEventInput struct {
	CalendarID  string
	Title       string
	Description string
	StartUTC    time.Time
	EndUTC      time.Time
	Timezone    string // zone attached for display on the provider side
}
