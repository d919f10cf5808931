// Command simulate runs the scheduling pipeline against a synthetic
// calendar: it fabricates a busy day, then walks booking attempts and slot
// discovery through the real orchestrator. Useful for demoing the voice
// flows without Google credentials.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"voice-scheduling-agent/internal/model"
	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/internal/scheduling/provider"
	"voice-scheduling-agent/internal/scheduling/usecase"
	"voice-scheduling-agent/pkg/log"
	"voice-scheduling-agent/pkg/retry"
	"voice-scheduling-agent/pkg/timeparse"
)

const timezone = "America/New_York"

// fakeCalendar is an in-memory calendar seeded with synthetic meetings.
type fakeCalendar struct {
	busy []scheduling.BusyInterval
}

func (f *fakeCalendar) FetchBusyIntervals(ctx context.Context, _ string, from, to time.Time) ([]scheduling.BusyInterval, error) {
	var out []scheduling.BusyInterval
	for _, b := range f.busy {
		if b.Start.Before(to) && from.Before(b.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, input provider.CreateEventInput) (scheduling.EventRef, error) {
	f.busy = append(f.busy, scheduling.BusyInterval{
		Start: input.StartUTC,
		End:   input.EndUTC,
		Label: input.Title,
	})
	return scheduling.EventRef{ID: gofakeit.UUID(), Link: "https://calendar.example/" + gofakeit.LetterN(8)}, nil
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	logger := log.Init(log.ZapConfig{Level: "info", Mode: "debug", Encoding: "console", ColorEnabled: true})
	ctx := context.Background()

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		fmt.Println("load timezone:", err)
		os.Exit(1)
	}

	resolver, err := timeparse.NewResolver(timezone)
	if err != nil {
		fmt.Println("resolver:", err)
		os.Exit(1)
	}

	// Seed tomorrow with a handful of synthetic meetings.
	now := time.Now().In(loc)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	cal := &fakeCalendar{}
	meetingCount := gofakeit.Number(2, 4)
	for i := 0; i < meetingCount; i++ {
		startHour := gofakeit.Number(9, 16)
		start := tomorrow.Add(time.Duration(startHour) * time.Hour)
		cal.busy = append(cal.busy, scheduling.BusyInterval{
			Start: start.UTC(),
			End:   start.Add(time.Duration(gofakeit.Number(1, 2)) * 30 * time.Minute).UTC(),
			Label: fmt.Sprintf("%s with %s", gofakeit.RandomString([]string{"Sync", "Review", "1:1", "Planning"}), gofakeit.FirstName()),
		})
	}
	for _, b := range cal.busy {
		logger.Infof(ctx, "busy: %s  %s - %s", b.Label, b.Start.In(loc).Format("3:04 PM"), b.End.In(loc).Format("3:04 PM"))
	}

	uc := usecase.New(logger, cal, nil, nil, resolver, usecase.Config{
		CalendarID: "primary",
		Retry:      retry.Policy{Attempts: 1, Delay: 100 * time.Millisecond},
	})

	// Slot discovery for tomorrow morning and afternoon.
	for _, part := range []scheduling.PartOfDay{scheduling.PartMorning, scheduling.PartAfternoon} {
		out, err := uc.FindOpenSlots(ctx, scheduling.SlotsInput{DayPhrase: "tomorrow", Part: part})
		if err != nil {
			logger.Errorf(ctx, "slots (%s): %v", part, err)
			continue
		}
		for _, slot := range out.Slots {
			logger.Infof(ctx, "open %-9s %s", part, slot.Start.In(loc).Format("3:04 PM"))
		}
		if len(out.Slots) == 0 {
			logger.Infof(ctx, "open %-9s none", part)
		}
	}

	// A few booking attempts with synthetic callers.
	phrases := []string{"tomorrow at 10 AM", "tomorrow at 2 PM", "tomorrow at 2 PM"}
	for _, phrase := range phrases {
		caller := gofakeit.FirstName()
		outcome, err := uc.Book(ctx, model.Scope{UserID: caller}, scheduling.BookInput{
			RequestID:  gofakeit.UUID(),
			CallerName: caller,
			Phrase:     phrase,
			Title:      gofakeit.RandomString([]string{"Quick Sync", "Project Kickoff", "Team Meeting"}),
			Confirmed:  true,
		})
		if err != nil {
			logger.Errorf(ctx, "book %q: %v", phrase, err)
			continue
		}

		switch outcome.Status {
		case scheduling.OutcomeCreated:
			logger.Infof(ctx, "booked %q for %s at %s (%dm)", outcome.Title, caller, outcome.When.Spoken(), outcome.DurationMinutes)
		case scheduling.OutcomeConflict:
			logger.Infof(ctx, "conflict for %s at %q: %s", caller, phrase, outcome.Conflicts[0].Label)
		default:
			logger.Infof(ctx, "outcome %s for %s at %q", outcome.Status, caller, phrase)
		}
	}
}
