package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"voice-scheduling-agent/config"
	_ "voice-scheduling-agent/docs" // Swagger docs
	"voice-scheduling-agent/internal/bookinglog"
	bookingSqlite "voice-scheduling-agent/internal/bookinglog/sqlite"
	"voice-scheduling-agent/internal/httpserver"
	"voice-scheduling-agent/internal/scheduling"
	vapiDelivery "voice-scheduling-agent/internal/scheduling/delivery/vapi"
	"voice-scheduling-agent/internal/scheduling/provider"
	gcalProvider "voice-scheduling-agent/internal/scheduling/provider/gcal"
	icsProvider "voice-scheduling-agent/internal/scheduling/provider/icsfeed"
	"voice-scheduling-agent/internal/scheduling/usecase"
	"voice-scheduling-agent/pkg/gcalendar"
	"voice-scheduling-agent/pkg/log"
	"voice-scheduling-agent/pkg/redislock"
	"voice-scheduling-agent/pkg/retry"
	"voice-scheduling-agent/pkg/timeparse"
)

// @title       Voice Scheduling Agent API
// @description Voice-driven calendar scheduling: natural-language time resolution, conflict detection, slot discovery, and Google Calendar booking.
// @version     2
// @host        localhost:8080
// @schemes     http
func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Voice Scheduling Agent...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Timezone: %s", cfg.Scheduling.Timezone)

	// 3. Time resolver
	resolver, err := timeparse.NewResolver(cfg.Scheduling.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Scheduling.Timezone, err)
		resolver, _ = timeparse.NewResolver("UTC")
	}

	// 4. Calendar provider: Google Calendar when credentials are present,
	// otherwise an optional read-only ICS feed (availability only).
	var calendarProvider provider.CalendarProvider
	switch {
	case cfg.GoogleCalendar.CredentialsPath != "":
		gcalClient, gErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if gErr != nil {
			logger.Errorf(ctx, "Google Calendar not available: %v", gErr)
			logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
			return
		}
		calendarProvider = gcalProvider.New(gcalClient, resolver.Location())
		logger.Info(ctx, "✅ Google Calendar initialized")
	case cfg.ICSFeed.URL != "":
		calendarProvider = icsProvider.New(cfg.ICSFeed.URL)
		logger.Warn(ctx, "Running against a read-only ICS feed: availability only, bookings will fail")
	default:
		logger.Error(ctx, "No calendar source configured (google_calendar.credentials_path or ics_feed.url)")
		return
	}

	// 5. Booking log (optional)
	var bookingLog *bookingSqlite.DB
	if cfg.BookingLog.Path != "" {
		bookingLog, err = bookingSqlite.Open(cfg.BookingLog.Path)
		if err != nil {
			logger.Warnf(ctx, "Booking log disabled: %v", err)
		} else {
			defer bookingLog.Close()
			logger.Infof(ctx, "Booking log: %s", cfg.BookingLog.Path)
		}
	}

	// 6. Slot locker: Redis when configured, otherwise per-process no-op
	locker := redislock.Noop()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			logger.Warnf(ctx, "Redis unreachable, slot locking disabled: %v", pingErr)
		} else {
			locker = redislock.New(redisClient, cfg.Redis.LockTTL)
			logger.Infof(ctx, "✅ Redis slot locking enabled (%s)", cfg.Redis.Addr)
		}
	}

	// 7. Scheduling UseCase
	schedulingUC := usecase.New(logger, calendarProvider, locker, repoOrNil(bookingLog), resolver, usecase.Config{
		CalendarID:             cfg.GoogleCalendar.CalendarID,
		DefaultDurationMinutes: cfg.Scheduling.DefaultDurationMinutes,
		BusinessHours: scheduling.BusinessHours{
			StartHour: cfg.Scheduling.BusinessHoursStart,
			EndHour:   cfg.Scheduling.BusinessHoursEnd,
		},
		SlotCount: cfg.Scheduling.SlotCount,
		Retry: retry.Policy{
			Attempts: cfg.Scheduling.RetryAttempts,
			Delay:    cfg.Scheduling.RetryDelay,
		},
	})

	// 8. Voice tool delivery
	vapiHandler := vapiDelivery.NewHandler(schedulingUC, repoOrNil(bookingLog), vapiDelivery.SecurityConfig{
		Secret:          cfg.Vapi.Secret,
		RateLimitPerMin: cfg.Vapi.RateLimitPerMin,
	}, logger)

	// Surface the public URL the voice platform should point tool calls at.
	if publicURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040"); ngrokErr == nil {
		logger.Infof(ctx, "Public tool URL base: %s/api/tool", publicURL)
	}

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		VapiHandler: vapiHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// repoOrNil converts a possibly-nil *DB into a Repository without
// producing a typed nil interface.
func repoOrNil(db *bookingSqlite.DB) bookinglog.Repository {
	if db == nil {
		return nil
	}
	return db
}
