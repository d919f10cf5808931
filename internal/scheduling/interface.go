package scheduling

import (
	"context"

	"voice-scheduling-agent/internal/model"
)

// UseCase is the business logic interface for the scheduling domain.
type UseCase interface {
	// Book runs one check → confirm → create orchestration. Business
	// results (created, conflict, rejected, provider failure) come back as
	// the outcome; parse failures come back as a *timeparse.ParseError so
	// the voice layer can re-prompt.
	Book(ctx context.Context, sc model.Scope, input BookInput) (BookOutcome, error)

	// CheckAvailability resolves the phrase and reports conflicts without
	// booking anything.
	CheckAvailability(ctx context.Context, input CheckInput) (CheckOutput, error)

	// FindOpenSlots enumerates free windows on the requested day.
	FindOpenSlots(ctx context.Context, input SlotsInput) (SlotsOutput, error)
}
