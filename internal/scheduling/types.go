package scheduling

import (
	"time"

	"voice-scheduling-agent/pkg/timeparse"
)

// BusyInterval is a half-open occupied range [Start, End) on the calendar,
// always in UTC. Sourced from the provider; read-only here.
type BusyInterval struct {
	Start time.Time
	End   time.Time
	Label string
}

// Window is a half-open candidate range [Start, End) in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the window and the busy interval share any time.
// Touching endpoints do not overlap.
func (w Window) Overlaps(b BusyInterval) bool {
	return w.Start.Before(b.End) && b.Start.Before(w.End)
}

// OpenSlot is a bookable free range, exactly the requested duration long.
type OpenSlot struct {
	Start time.Time
	End   time.Time
}

// PartOfDay filters slot discovery to a sub-range of the business day.
type PartOfDay string

const (
	PartAny       PartOfDay = ""
	PartMorning   PartOfDay = "morning"
	PartAfternoon PartOfDay = "afternoon"
	PartEvening   PartOfDay = "evening"
)

// SlotQuery describes a slot discovery request for one calendar day.
type SlotQuery struct {
	Count           int // desired number of slots; 0 means DefaultSlotCount
	Part            PartOfDay
	DurationMinutes int // 0 means DefaultDurationMinutes
}

// DefaultSlotCount is how many open slots discovery returns unless asked
// for more.
const DefaultSlotCount = 3

// BusinessHours bound the scan window for slot discovery, as local wall
// clock hours.
type BusinessHours struct {
	StartHour int
	EndHour   int
}

// DefaultBusinessHours is the 9:00–18:00 local scan window.
var DefaultBusinessHours = BusinessHours{StartHour: 9, EndHour: 18}

// EventRef identifies a created calendar event.
type EventRef struct {
	ID   string
	Link string
}

// OutcomeStatus tags the result of one booking orchestration.
type OutcomeStatus string

const (
	OutcomeCreated       OutcomeStatus = "created"
	OutcomeConflict      OutcomeStatus = "conflict"
	OutcomeRejected      OutcomeStatus = "rejected"
	OutcomeProviderError OutcomeStatus = "provider_error"
)

// RejectReason explains a Rejected outcome.
type RejectReason string

const (
	RejectInvalidDuration RejectReason = "invalid_duration"
	RejectInvalidTitle    RejectReason = "invalid_title"
	RejectNotConfirmed    RejectReason = "not_confirmed"
)

// BookInput is one booking attempt from the voice layer.
type BookInput struct {
	RequestID       string // tool call ID; repeated deliveries return the cached outcome
	CallerName      string
	Phrase          string // natural-language date/time, e.g. "tomorrow at 2 PM"
	Title           string // empty means a default label is derived
	DurationMinutes int    // 0 means inferred from the title
	Timezone        string // IANA zone confirmed by the caller; empty means default
	Confirmed       bool   // the voice layer has read back title/time/duration/zone
}

// BookOutcome is the terminal result of one booking attempt. Produced once,
// never mutated.
type BookOutcome struct {
	Status          OutcomeStatus
	When            timeparse.Resolved
	Title           string
	DurationMinutes int

	Event       *EventRef         // Status == OutcomeCreated
	Conflicts   []BusyInterval    // Status == OutcomeConflict
	Reject      RejectReason      // Status == OutcomeRejected
	FailureKind ProviderErrorKind // Status == OutcomeProviderError
}

// CheckInput asks whether a specific window is free.
type CheckInput struct {
	Phrase          string
	DurationMinutes int
	Timezone        string
}

// CheckOutput reports the resolved window and any conflicting intervals.
type CheckOutput struct {
	When            timeparse.Resolved
	DurationMinutes int
	Available       bool
	Conflicts       []BusyInterval
}

// SlotsInput asks for open slots on a calendar day.
type SlotsInput struct {
	DayPhrase       string // e.g. "tomorrow", "next friday"; empty means tomorrow
	Part            PartOfDay
	Count           int
	DurationMinutes int
	Timezone        string
}

// SlotsOutput is the ordered, earliest-first slot list for the day.
type SlotsOutput struct {
	Day      time.Time // start of the scanned day, in the query zone
	Timezone string
	Slots    []OpenSlot
}
