package scheduling

import (
	"sort"
	"time"
)

// Conflicts returns every busy interval overlapping the candidate window,
// in input order. Empty result means the window is free. Half-open
// semantics: a meeting ending exactly when the candidate starts does not
// conflict.
func Conflicts(candidate Window, busy []BusyInterval) []BusyInterval {
	var overlapping []BusyInterval
	for _, b := range busy {
		if candidate.Overlaps(b) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping
}

// partRanges are the local wall-clock sub-ranges for part-of-day filters.
var partRanges = map[PartOfDay]BusinessHours{
	PartMorning:   {StartHour: 9, EndHour: 12},
	PartAfternoon: {StartHour: 12, EndHour: 17},
	PartEvening:   {StartHour: 17, EndHour: 20},
}

// FindOpenSlots scans one calendar day chronologically and returns up to
// q.Count open slots of exactly q.DurationMinutes each, earliest first.
// day must be the start of the target day in loc. The scan window is the
// business-hours range intersected with the part-of-day sub-range; each
// maximal free gap long enough for the duration yields one slot at its
// start. Pure function: identical inputs yield identical output.
func FindOpenSlots(day time.Time, loc *time.Location, hours BusinessHours, q SlotQuery, busy []BusyInterval) []OpenSlot {
	count := q.Count
	if count <= 0 {
		count = DefaultSlotCount
	}
	durationMin := q.DurationMinutes
	if durationMin <= 0 {
		durationMin = DefaultDurationMinutes
	}
	duration := time.Duration(durationMin) * time.Minute

	startHour, endHour := hours.StartHour, hours.EndHour
	if r, ok := partRanges[q.Part]; ok {
		startHour = max(startHour, r.StartHour)
		endHour = min(endHour, r.EndHour)
	}
	if startHour >= endHour {
		return nil
	}

	day = day.In(loc)
	scanStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, loc)
	scanEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, loc)

	sorted := make([]BusyInterval, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var slots []OpenSlot
	cursor := scanStart
	emit := func(gapStart, gapEnd time.Time) {
		if len(slots) < count && gapEnd.Sub(gapStart) >= duration {
			slots = append(slots, OpenSlot{Start: gapStart, End: gapStart.Add(duration)})
		}
	}

	for _, b := range sorted {
		if !b.End.After(scanStart) || !b.Start.Before(scanEnd) {
			continue
		}
		if b.Start.After(cursor) {
			emit(cursor, minTime(b.Start, scanEnd))
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(scanEnd) || len(slots) >= count {
			break
		}
	}
	if cursor.Before(scanEnd) {
		emit(cursor, scanEnd)
	}

	return slots
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
