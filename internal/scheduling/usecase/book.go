package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-scheduling-agent/internal/model"
	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/internal/scheduling/provider"
	"voice-scheduling-agent/pkg/redislock"
)

// Book runs one booking orchestration: resolve the phrase, check the
// window, create the event. Every terminal state is reported as an
// outcome; only parse failures surface as errors so the voice layer can
// re-prompt the caller.
func (uc *implUseCase) Book(ctx context.Context, sc model.Scope, input scheduling.BookInput) (scheduling.BookOutcome, error) {
	if input.RequestID != "" {
		if cached, ok := uc.outcomes.Get(input.RequestID); ok {
			uc.l.Infof(ctx, "Book: replaying cached outcome request=%s status=%s", input.RequestID, cached.Status)
			return cached, nil
		}
	}

	outcome, err := uc.book(ctx, sc, input)
	if err != nil {
		return scheduling.BookOutcome{}, err
	}

	if input.RequestID != "" {
		uc.outcomes.Add(input.RequestID, outcome)
	}
	return outcome, nil
}

func (uc *implUseCase) book(ctx context.Context, sc model.Scope, input scheduling.BookInput) (scheduling.BookOutcome, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = defaultTitle(input.CallerName)
	}

	duration := input.DurationMinutes
	if duration == 0 {
		duration = scheduling.InferDuration(title)
	}

	if reject, ok := validate(title, duration, input.Confirmed); !ok {
		uc.l.Infof(ctx, "Book: rejected user=%s reason=%s", sc.UserID, reject)
		return scheduling.BookOutcome{
			Status:          scheduling.OutcomeRejected,
			Title:           title,
			DurationMinutes: duration,
			Reject:          reject,
		}, nil
	}

	resolver, err := uc.resolverFor(input.Timezone)
	if err != nil {
		return scheduling.BookOutcome{}, fmt.Errorf("invalid timezone %q: %w", input.Timezone, err)
	}

	when, err := resolver.Resolve(input.Phrase, uc.now())
	if err != nil {
		uc.l.Infof(ctx, "Book: unresolvable phrase user=%s phrase=%q: %v", sc.UserID, input.Phrase, err)
		return scheduling.BookOutcome{}, err
	}

	window := scheduling.Window{
		Start: when.UTC,
		End:   when.UTC.Add(time.Duration(duration) * time.Minute),
	}

	outcome := scheduling.BookOutcome{
		Status:          scheduling.OutcomeCreated,
		When:            when,
		Title:           title,
		DurationMinutes: duration,
	}

	slotKey := fmt.Sprintf("%s:%s:%d", uc.cfg.CalendarID, window.Start.Format(time.RFC3339), duration)
	lockErr := uc.locker.WithLock(ctx, slotKey, func(ctx context.Context) error {
		busy, err := uc.fetchBusy(ctx, window.Start, window.End)
		if err != nil {
			uc.l.Errorf(ctx, "Book: busy fetch failed user=%s: %v", sc.UserID, err)
			outcome.Status = scheduling.OutcomeProviderError
			outcome.FailureKind = failureKind(err)
			return nil
		}

		if conflicts := scheduling.Conflicts(window, busy); len(conflicts) > 0 {
			uc.l.Infof(ctx, "Book: conflict user=%s start=%s conflicts=%d", sc.UserID, window.Start.Format(time.RFC3339), len(conflicts))
			outcome.Status = scheduling.OutcomeConflict
			outcome.Conflicts = conflicts
			return nil
		}

		// The window is clear and the caller confirmed; honor cancellation
		// here, but never abandon a create already in flight.
		if err := ctx.Err(); err != nil {
			return err
		}

		event, err := uc.createEvent(context.WithoutCancel(ctx), input, title, window, when.Timezone)
		if err != nil {
			uc.l.Errorf(ctx, "Book: event create failed user=%s: %v", sc.UserID, err)
			outcome.Status = scheduling.OutcomeProviderError
			outcome.FailureKind = failureKind(err)
			return nil
		}
		outcome.Event = &event
		return nil
	})
	if lockErr != nil {
		if errors.Is(lockErr, redislock.ErrNotAcquired) {
			// Another call is booking the same slot right now; report it the
			// way a lost race reports, as a transient failure worth retrying.
			uc.l.Infof(ctx, "Book: slot lock contended user=%s slot=%s", sc.UserID, slotKey)
			outcome.Status = scheduling.OutcomeProviderError
			outcome.FailureKind = scheduling.ProviderTransient
			return outcome, nil
		}
		return scheduling.BookOutcome{}, lockErr
	}

	if outcome.Status == scheduling.OutcomeCreated {
		uc.l.Infof(ctx, "Book: created user=%s event=%s start=%s", sc.UserID, outcome.Event.ID, window.Start.Format(time.RFC3339))
		uc.logBooking(ctx, input, outcome, window)
	}
	return outcome, nil
}

func (uc *implUseCase) fetchBusy(ctx context.Context, from, to time.Time) ([]scheduling.BusyInterval, error) {
	var busy []scheduling.BusyInterval
	err := uc.cfg.Retry.Do(ctx, scheduling.IsTransient, func(ctx context.Context) error {
		var err error
		busy, err = uc.calendar.FetchBusyIntervals(ctx, uc.cfg.CalendarID, from, to)
		return err
	})
	return busy, err
}

func (uc *implUseCase) createEvent(ctx context.Context, input scheduling.BookInput, title string, window scheduling.Window, timezone string) (scheduling.EventRef, error) {
	description := "Scheduled by phone"
	if input.CallerName != "" {
		description = fmt.Sprintf("Scheduled by phone for %s", input.CallerName)
	}

	var event scheduling.EventRef
	err := uc.cfg.Retry.Do(ctx, scheduling.IsTransient, func(ctx context.Context) error {
		var err error
		event, err = uc.calendar.CreateEvent(ctx, provider.CreateEventInput{
			CalendarID:  uc.cfg.CalendarID,
			Title:       title,
			Description: description,
			StartUTC:    window.Start,
			EndUTC:      window.End,
			Timezone:    timezone,
		})
		return err
	})
	return event, err
}

// logBooking appends the booking record fire-and-forget: the event already
// exists on the calendar, so a log write failure must not fail the booking.
func (uc *implUseCase) logBooking(ctx context.Context, input scheduling.BookInput, outcome scheduling.BookOutcome, window scheduling.Window) {
	if uc.repo == nil {
		return
	}

	booking := model.Booking{
		CallerName:      input.CallerName,
		Title:           outcome.Title,
		StartUTC:        window.Start,
		EndUTC:          window.End,
		DurationMinutes: outcome.DurationMinutes,
		Timezone:        outcome.When.Timezone,
		EventID:         outcome.Event.ID,
		EventLink:       outcome.Event.Link,
	}

	go func() {
		logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := uc.repo.Insert(logCtx, &booking); err != nil {
			uc.l.Errorf(logCtx, "Book: booking log write failed event=%s: %v", booking.EventID, err)
		}
	}()
}

func validate(title string, duration int, confirmed bool) (scheduling.RejectReason, bool) {
	if duration <= 0 {
		return scheduling.RejectInvalidDuration, false
	}
	if len(title) > maxTitleLength {
		return scheduling.RejectInvalidTitle, false
	}
	if !confirmed {
		return scheduling.RejectNotConfirmed, false
	}
	return "", true
}

func defaultTitle(callerName string) string {
	if callerName != "" {
		return fmt.Sprintf("Meeting with %s", callerName)
	}
	return "New Appointment"
}

func failureKind(err error) scheduling.ProviderErrorKind {
	if scheduling.IsTransient(err) {
		return scheduling.ProviderTransient
	}
	return scheduling.ProviderNonRetryable
}
