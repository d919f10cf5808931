package usecase

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"voice-scheduling-agent/internal/bookinglog"
	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/internal/scheduling/provider"
	pkgLog "voice-scheduling-agent/pkg/log"
	"voice-scheduling-agent/pkg/redislock"
	"voice-scheduling-agent/pkg/retry"
	"voice-scheduling-agent/pkg/timeparse"
)

const (
	// outcomeCacheSize bounds the tool-call dedupe cache. Voice platforms
	// redeliver tool calls on webhook timeouts; a repeated request ID must
	// return the original outcome instead of booking twice.
	outcomeCacheSize = 1024
	outcomeCacheTTL  = 10 * time.Minute

	maxTitleLength = 200
)

// Config carries the static knobs of the scheduling orchestrator.
type Config struct {
	CalendarID             string
	DefaultDurationMinutes int // meeting length when the caller names none
	BusinessHours          scheduling.BusinessHours
	SlotCount              int
	Retry                  retry.Policy
}

type implUseCase struct {
	l        pkgLog.Logger
	calendar provider.CalendarProvider
	locker   redislock.Locker
	repo     bookinglog.Repository // nil disables the booking log
	resolver *timeparse.Resolver
	cfg      Config

	outcomes *expirable.LRU[string, scheduling.BookOutcome]

	// now is stubbed in tests.
	now func() time.Time
}

// New creates a new scheduling UseCase instance.
func New(
	l pkgLog.Logger,
	calendar provider.CalendarProvider,
	locker redislock.Locker,
	repo bookinglog.Repository,
	resolver *timeparse.Resolver,
	cfg Config,
) *implUseCase {
	if cfg.BusinessHours == (scheduling.BusinessHours{}) {
		cfg.BusinessHours = scheduling.DefaultBusinessHours
	}
	if cfg.SlotCount <= 0 {
		cfg.SlotCount = scheduling.DefaultSlotCount
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = scheduling.DefaultDurationMinutes
	}
	if locker == nil {
		locker = redislock.Noop()
	}
	return &implUseCase{
		l:        l,
		calendar: calendar,
		locker:   locker,
		repo:     repo,
		resolver: resolver,
		cfg:      cfg,
		outcomes: expirable.NewLRU[string, scheduling.BookOutcome](outcomeCacheSize, nil, outcomeCacheTTL),
		now:      time.Now,
	}
}

// resolverFor returns the default resolver, or a fresh one when the caller
// confirmed a different zone.
func (uc *implUseCase) resolverFor(timezone string) (*timeparse.Resolver, error) {
	if timezone == "" || timezone == uc.resolver.Timezone() {
		return uc.resolver, nil
	}
	return timeparse.NewResolver(timezone)
}
