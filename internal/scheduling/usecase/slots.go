package usecase

import (
	"context"
	"fmt"

	"voice-scheduling-agent/internal/scheduling"
)

// FindOpenSlots resolves the day phrase and returns free windows within
// business hours, earliest first.
func (uc *implUseCase) FindOpenSlots(ctx context.Context, input scheduling.SlotsInput) (scheduling.SlotsOutput, error) {
	resolver, err := uc.resolverFor(input.Timezone)
	if err != nil {
		return scheduling.SlotsOutput{}, fmt.Errorf("invalid timezone %q: %w", input.Timezone, err)
	}

	phrase := input.DayPhrase
	if phrase == "" {
		phrase = "tomorrow"
	}
	day, err := resolver.ResolveDay(phrase, uc.now())
	if err != nil {
		return scheduling.SlotsOutput{}, err
	}

	busy, err := uc.fetchBusy(ctx, day.UTC(), day.AddDate(0, 0, 1).UTC())
	if err != nil {
		uc.l.Errorf(ctx, "FindOpenSlots: busy fetch failed: %v", err)
		return scheduling.SlotsOutput{}, err
	}

	query := scheduling.SlotQuery{
		Count:           input.Count,
		Part:            input.Part,
		DurationMinutes: input.DurationMinutes,
	}
	if query.Count <= 0 {
		query.Count = uc.cfg.SlotCount
	}
	if query.DurationMinutes <= 0 {
		query.DurationMinutes = uc.cfg.DefaultDurationMinutes
	}

	slots := scheduling.FindOpenSlots(day, day.Location(), uc.cfg.BusinessHours, query, busy)
	uc.l.Infof(ctx, "FindOpenSlots: day=%s part=%q found=%d", day.Format("2006-01-02"), query.Part, len(slots))

	return scheduling.SlotsOutput{
		Day:      day,
		Timezone: resolver.Timezone(),
		Slots:    slots,
	}, nil
}
