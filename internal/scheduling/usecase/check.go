package usecase

import (
	"context"
	"fmt"
	"time"

	"voice-scheduling-agent/internal/scheduling"
)

// CheckAvailability resolves the phrase and reports whether the window is
// clear. Nothing is booked and nothing is cached; checks are idempotent.
func (uc *implUseCase) CheckAvailability(ctx context.Context, input scheduling.CheckInput) (scheduling.CheckOutput, error) {
	duration := input.DurationMinutes
	if duration <= 0 {
		duration = uc.cfg.DefaultDurationMinutes
	}

	resolver, err := uc.resolverFor(input.Timezone)
	if err != nil {
		return scheduling.CheckOutput{}, fmt.Errorf("invalid timezone %q: %w", input.Timezone, err)
	}

	when, err := resolver.Resolve(input.Phrase, uc.now())
	if err != nil {
		return scheduling.CheckOutput{}, err
	}

	window := scheduling.Window{
		Start: when.UTC,
		End:   when.UTC.Add(time.Duration(duration) * time.Minute),
	}

	busy, err := uc.fetchBusy(ctx, window.Start, window.End)
	if err != nil {
		uc.l.Errorf(ctx, "CheckAvailability: busy fetch failed: %v", err)
		return scheduling.CheckOutput{}, err
	}

	conflicts := scheduling.Conflicts(window, busy)
	uc.l.Infof(ctx, "CheckAvailability: start=%s duration=%d conflicts=%d", window.Start.Format(time.RFC3339), duration, len(conflicts))

	return scheduling.CheckOutput{
		When:            when,
		DurationMinutes: duration,
		Available:       len(conflicts) == 0,
		Conflicts:       conflicts,
	}, nil
}
