package timeparse

import "time"

// Resolved is a fully resolved instant. UTC is the source of truth; Timezone
// is the zone the caller confirmed, kept only for display round-trips.
type Resolved struct {
	UTC      time.Time
	Timezone string
}

// Local returns the instant as a wall-clock time in the confirmed zone.
func (r Resolved) Local() time.Time {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return r.UTC
	}
	return r.UTC.In(loc)
}

// Spoken formats the instant the way the voice layer reads it back,
// e.g. "Wednesday, June 11 at 2:00 PM".
func (r Resolved) Spoken() string {
	return r.Local().Format("Monday, January 2 at 3:04 PM")
}
