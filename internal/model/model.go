package model

import "time"

// Environment names the deployment environment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Scope carries the caller identity attached to a request.
type Scope struct {
	UserID   string
	CallerID string // voice platform call identifier, if any
}

// Booking is a persisted record of a successfully created calendar event.
// Written fire-and-forget after creation; the booking succeeds even when
// the log write fails.
type Booking struct {
	ID              int64
	CallerName      string
	Title           string
	StartUTC        time.Time
	EndUTC          time.Time
	DurationMinutes int
	Timezone        string
	EventID         string
	EventLink       string
	Status          string
	CreatedAt       time.Time
}
