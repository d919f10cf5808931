package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GraceWindow is how far in the past a resolved instant may fall before it
// is rejected. Callers re-prompt the user on ErrPastInstant; they never get
// a guessed time.
const GraceWindow = time.Minute

// Resolver converts natural-language date/time phrases into absolute,
// timezone-correct instants. All arithmetic happens on zoned time.Time
// values; there is no naive/local-only math anywhere in this package.
type Resolver struct {
	location *time.Location
	timezone string
}

// NewResolver creates a resolver for the given IANA timezone string,
// e.g. "America/New_York".
func NewResolver(timezone string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Resolver{location: loc, timezone: timezone}, nil
}

// Timezone returns the resolver's configured zone name.
func (r *Resolver) Timezone() string {
	return r.timezone
}

// Location returns the resolver's configured zone.
func (r *Resolver) Location() *time.Location {
	return r.location
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Spoken zone mentions the resolver recognizes inside a phrase. The caller
// always confirms the final zone; this only covers explicit mentions like
// "3 pm pacific". Checked in order so a phrase naming two zones resolves
// the same way every time.
var zoneMentions = []struct {
	word string
	zone string
}{
	{"eastern", "America/New_York"},
	{"central", "America/Chicago"},
	{"mountain", "America/Denver"},
	{"pacific", "America/Los_Angeles"},
	{"utc", "UTC"},
}

const weekdayAlt = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`

var (
	reClock    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	reHourOnly = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)
	reInUnits  = regexp.MustCompile(`\bin (\d+) (day|days|week|weeks|month|months)\b`)
	reNextWd   = regexp.MustCompile(`\bnext (` + weekdayAlt + `)\b`)
	reBareWd   = regexp.MustCompile(`\b(` + weekdayAlt + `)\b`)
	reMonthDay = regexp.MustCompile(`\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?) (\d{1,2})(?:st|nd|rd|th)?\b`)
)

// Resolve parses a phrase like "tomorrow at 2 PM" against the reference
// instant and returns the resolved UTC instant. Ambiguous phrases resolve
// forward, never into the past.
func (r *Resolver) Resolve(text string, now time.Time) (Resolved, error) {
	phrase := strings.ToLower(strings.TrimSpace(text))
	if phrase == "" {
		return Resolved{}, &ParseError{Reason: ReasonUnrecognized, Text: text}
	}

	loc, tzName := r.location, r.timezone
	for _, zm := range zoneMentions {
		if containsWord(phrase, zm.word) {
			if z, err := time.LoadLocation(zm.zone); err == nil {
				loc, tzName = z, zm.zone
			}
			break
		}
	}

	ref := now.In(loc)

	day, hasDay, todayAmbiguous := parseDay(phrase, ref, loc)
	hour, minute, hasClock := parseClock(phrase)
	partHour, hasPart := parseDayPart(phrase)

	if !hasDay && !hasClock && !hasPart {
		return Resolved{}, &ParseError{Reason: ReasonUnrecognized, Text: text}
	}

	switch {
	case hasClock:
		// explicit clock time wins over a day-part word
	case hasPart:
		hour, minute = partHour, 0
	default:
		// day token only: start of business hours
		hour, minute = 9, 0
	}

	if !hasDay {
		day = startOfDay(ref, loc)
	}

	resolved := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)

	if resolved.Before(ref) {
		switch {
		case !hasDay:
			// bare time already gone today rolls to tomorrow
			resolved = resolved.AddDate(0, 0, 1)
		case todayAmbiguous:
			// unqualified weekday matching today, time already gone
			resolved = resolved.AddDate(0, 0, 7)
		}
	}

	if resolved.Before(now.Add(-GraceWindow)) {
		return Resolved{}, &ParseError{Reason: ReasonPastInstant, Text: text}
	}

	return Resolved{UTC: resolved.UTC(), Timezone: tzName}, nil
}

// ResolveDay parses only the date portion of a phrase and returns the start
// of that calendar day in the resolver's zone. Used for slot discovery.
func (r *Resolver) ResolveDay(text string, now time.Time) (time.Time, error) {
	phrase := strings.ToLower(strings.TrimSpace(text))
	ref := now.In(r.location)

	day, hasDay, _ := parseDay(phrase, ref, r.location)
	if !hasDay {
		return time.Time{}, &ParseError{Reason: ReasonUnrecognized, Text: text}
	}
	return day, nil
}

// parseDay extracts the day component. The third result marks an
// unqualified weekday that matches the reference day, where the forward
// rule may still push the phrase a week out.
func parseDay(phrase string, ref time.Time, loc *time.Location) (time.Time, bool, bool) {
	today := startOfDay(ref, loc)

	if containsWord(phrase, "today") || containsWord(phrase, "tonight") {
		return today, true, false
	}
	if containsWord(phrase, "tomorrow") {
		return today.AddDate(0, 0, 1), true, false
	}

	if m := reInUnits.FindStringSubmatch(phrase); m != nil {
		amount, _ := strconv.Atoi(m[1])
		switch {
		case strings.HasPrefix(m[2], "day"):
			return today.AddDate(0, 0, amount), true, false
		case strings.HasPrefix(m[2], "week"):
			return today.AddDate(0, 0, amount*7), true, false
		default:
			return today.AddDate(0, amount, 0), true, false
		}
	}

	if m := reNextWd.FindStringSubmatch(phrase); m != nil {
		target := weekdays[m[1]]
		daysUntil := int(target - ref.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		return today.AddDate(0, 0, daysUntil), true, false
	}

	if m := reBareWd.FindStringSubmatch(phrase); m != nil {
		target := weekdays[m[1]]
		daysUntil := (int(target-ref.Weekday()) + 7) % 7
		return today.AddDate(0, 0, daysUntil), true, daysUntil == 0
	}

	if m := reMonthDay.FindStringSubmatch(phrase); m != nil {
		month := months[m[1]]
		dayNum, _ := strconv.Atoi(m[2])
		candidate := time.Date(ref.Year(), month, dayNum, 0, 0, 0, 0, loc)
		if candidate.Before(today) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate, true, false
	}

	return time.Time{}, false, false
}

// parseClock extracts an explicit clock time. "14:00" is taken as 24-hour;
// "2:30 pm" and "2 pm" apply the meridiem.
func parseClock(phrase string) (int, int, bool) {
	if containsWord(phrase, "noon") {
		return 12, 0, true
	}
	if containsWord(phrase, "midnight") {
		return 0, 0, true
	}

	if m := reClock.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, 0, false
		}
		return applyMeridiem(hour, m[3]), minute, true
	}

	if m := reHourOnly.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 12 {
			return 0, 0, false
		}
		return applyMeridiem(hour, m[2]), 0, true
	}

	return 0, 0, false
}

// parseDayPart maps vague day-part words to their representative hour.
func parseDayPart(phrase string) (int, bool) {
	switch {
	case containsWord(phrase, "morning"):
		return 9, true
	case containsWord(phrase, "afternoon"):
		return 14, true
	case containsWord(phrase, "evening"), containsWord(phrase, "tonight"):
		return 18, true
	}
	return 0, false
}

func applyMeridiem(hour int, meridiem string) int {
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func containsWord(phrase, word string) bool {
	idx := strings.Index(phrase, word)
	for idx >= 0 {
		before := idx == 0 || !isWordChar(phrase[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(phrase) || !isWordChar(phrase[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(phrase[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
