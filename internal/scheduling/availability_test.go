package scheduling_test

import (
	"testing"
	"time"

	"voice-scheduling-agent/internal/scheduling"
)

func utc(h, m int) time.Time {
	return time.Date(2025, 6, 11, h, m, 0, 0, time.UTC)
}

func TestConflicts(t *testing.T) {
	busy := []scheduling.BusyInterval{
		{Start: utc(13, 0), End: utc(13, 30), Label: "1:1"},
		{Start: utc(15, 0), End: utc(16, 0), Label: "Design review"},
	}

	tests := []struct {
		name      string
		candidate scheduling.Window
		want      int
	}{
		{
			name:      "partial overlap at start",
			candidate: scheduling.Window{Start: utc(13, 15), End: utc(13, 45)},
			want:      1,
		},
		{
			name:      "touching end does not conflict",
			candidate: scheduling.Window{Start: utc(13, 30), End: utc(14, 0)},
			want:      0,
		},
		{
			name:      "touching start does not conflict",
			candidate: scheduling.Window{Start: utc(12, 30), End: utc(13, 0)},
			want:      0,
		},
		{
			name:      "fully inside busy interval",
			candidate: scheduling.Window{Start: utc(15, 15), End: utc(15, 30)},
			want:      1,
		},
		{
			name:      "spanning both intervals",
			candidate: scheduling.Window{Start: utc(12, 0), End: utc(17, 0)},
			want:      2,
		},
		{
			name:      "free window",
			candidate: scheduling.Window{Start: utc(14, 0), End: utc(14, 30)},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scheduling.Conflicts(tt.candidate, busy)
			if len(got) != tt.want {
				t.Fatalf("Conflicts() returned %d intervals, want %d", len(got), tt.want)
			}
		})
	}

	t.Run("returns the overlapping interval itself", func(t *testing.T) {
		got := scheduling.Conflicts(scheduling.Window{Start: utc(13, 15), End: utc(13, 45)}, busy)
		if len(got) != 1 || got[0].Label != "1:1" {
			t.Fatalf("expected the 13:00-13:30 interval, got %v", got)
		}
	})

	t.Run("symmetric under busy re-ordering", func(t *testing.T) {
		cand := scheduling.Window{Start: utc(12, 0), End: utc(17, 0)}
		reversed := []scheduling.BusyInterval{busy[1], busy[0]}
		if len(scheduling.Conflicts(cand, busy)) != len(scheduling.Conflicts(cand, reversed)) {
			t.Fatal("conflict count changed under interval re-ordering")
		}
	})
}

func TestFindOpenSlots(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	day := time.Date(2025, 6, 11, 0, 0, 0, 0, ny)
	hours := scheduling.DefaultBusinessHours
	local := func(h, m int) time.Time {
		return time.Date(2025, 6, 11, h, m, 0, 0, ny)
	}

	t.Run("open day yields earliest slots", func(t *testing.T) {
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{DurationMinutes: 30}, nil)
		if len(got) != 1 {
			t.Fatalf("expected one maximal gap on an empty day, got %d", len(got))
		}
		if !got[0].Start.Equal(local(9, 0)) || !got[0].End.Equal(local(9, 30)) {
			t.Errorf("slot = %v–%v, want 9:00–9:30", got[0].Start, got[0].End)
		}
	})

	t.Run("fully booked day yields nothing", func(t *testing.T) {
		busy := []scheduling.BusyInterval{
			{Start: local(9, 0).UTC(), End: local(13, 0).UTC()},
			{Start: local(13, 10).UTC(), End: local(18, 0).UTC()},
		}
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Count: 3, DurationMinutes: 15}, busy)
		if len(got) != 0 {
			t.Fatalf("expected no slots on a day with no gap >= 15m, got %d", len(got))
		}
	})

	t.Run("gaps between meetings", func(t *testing.T) {
		busy := []scheduling.BusyInterval{
			{Start: local(10, 0).UTC(), End: local(11, 0).UTC()},
			{Start: local(12, 0).UTC(), End: local(14, 0).UTC()},
		}
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Count: 3, DurationMinutes: 30}, busy)
		wantStarts := []time.Time{local(9, 0), local(11, 0), local(14, 0)}
		if len(got) != len(wantStarts) {
			t.Fatalf("got %d slots, want %d", len(got), len(wantStarts))
		}
		for i, slot := range got {
			if !slot.Start.Equal(wantStarts[i]) {
				t.Errorf("slot %d starts %v, want %v", i, slot.Start, wantStarts[i])
			}
			if slot.End.Sub(slot.Start) != 30*time.Minute {
				t.Errorf("slot %d length %v, want exactly 30m", i, slot.End.Sub(slot.Start))
			}
		}
	})

	t.Run("slots never overlap busy intervals", func(t *testing.T) {
		busy := []scheduling.BusyInterval{
			{Start: local(9, 45).UTC(), End: local(10, 30).UTC()},
			{Start: local(11, 0).UTC(), End: local(12, 15).UTC()},
			{Start: local(15, 0).UTC(), End: local(15, 20).UTC()},
		}
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Count: 5, DurationMinutes: 45}, busy)
		if len(got) == 0 {
			t.Fatal("expected at least one slot")
		}
		for _, slot := range got {
			w := scheduling.Window{Start: slot.Start.UTC(), End: slot.End.UTC()}
			if conflicts := scheduling.Conflicts(w, busy); len(conflicts) != 0 {
				t.Errorf("slot %v–%v overlaps busy interval %v", slot.Start, slot.End, conflicts[0])
			}
		}
	})

	t.Run("part of day filter intersects business hours", func(t *testing.T) {
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Part: scheduling.PartMorning, DurationMinutes: 30}, nil)
		if len(got) != 1 {
			t.Fatalf("got %d slots, want 1", len(got))
		}
		if !got[0].Start.Equal(local(9, 0)) {
			t.Errorf("morning slot starts %v, want 9:00", got[0].Start)
		}

		got = scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Part: scheduling.PartEvening, DurationMinutes: 30}, nil)
		if len(got) != 1 || !got[0].Start.Equal(local(17, 0)) {
			t.Fatalf("evening filter should clamp to 17:00–18:00, got %v", got)
		}
	})

	t.Run("fewer gaps than desired count", func(t *testing.T) {
		busy := []scheduling.BusyInterval{
			{Start: local(9, 30).UTC(), End: local(17, 45).UTC()},
		}
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Count: 3, DurationMinutes: 15}, busy)
		if len(got) != 2 {
			t.Fatalf("expected the 2 surviving gaps, got %d", len(got))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		busy := []scheduling.BusyInterval{
			{Start: local(10, 0).UTC(), End: local(11, 0).UTC()},
		}
		q := scheduling.SlotQuery{Count: 3, DurationMinutes: 30}
		first := scheduling.FindOpenSlots(day, ny, hours, q, busy)
		second := scheduling.FindOpenSlots(day, ny, hours, q, busy)
		if len(first) != len(second) {
			t.Fatal("repeated calls returned different slot counts")
		}
		for i := range first {
			if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
				t.Fatal("repeated calls returned different slots")
			}
		}
	})

	t.Run("unsorted overlapping busy input", func(t *testing.T) {
		busy := []scheduling.BusyInterval{
			{Start: local(12, 0).UTC(), End: local(14, 0).UTC()},
			{Start: local(9, 0).UTC(), End: local(10, 0).UTC()},
			{Start: local(13, 0).UTC(), End: local(15, 0).UTC()},
		}
		got := scheduling.FindOpenSlots(day, ny, hours, scheduling.SlotQuery{Count: 5, DurationMinutes: 60}, busy)
		wantStarts := []time.Time{local(10, 0), local(15, 0)}
		if len(got) != len(wantStarts) {
			t.Fatalf("got %d slots, want %d", len(got), len(wantStarts))
		}
		for i := range got {
			if !got[i].Start.Equal(wantStarts[i]) {
				t.Errorf("slot %d starts %v, want %v", i, got[i].Start, wantStarts[i])
			}
		}
	})
}
