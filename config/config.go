package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Scheduling specifics
	Scheduling     SchedulingConfig
	GoogleCalendar GoogleCalendarConfig
	ICSFeed        ICSFeedConfig
	BookingLog     BookingLogConfig
	Redis          RedisConfig
	Vapi           VapiConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// SchedulingConfig tunes the booking orchestrator.
type SchedulingConfig struct {
	Timezone               string // default IANA zone for callers who name none
	DefaultDurationMinutes int
	BusinessHoursStart     int // local wall-clock hour, inclusive
	BusinessHoursEnd       int // local wall-clock hour, exclusive
	SlotCount              int
	RetryAttempts          int
	RetryDelay             time.Duration
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	CalendarID      string
}

// ICSFeedConfig points at an optional read-only busy source.
type ICSFeedConfig struct {
	URL string
}

type BookingLogConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type VapiConfig struct {
	Secret          string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Scheduling
	cfg.Scheduling.Timezone = viper.GetString("scheduling.timezone")
	cfg.Scheduling.DefaultDurationMinutes = viper.GetInt("scheduling.default_duration_minutes")
	cfg.Scheduling.BusinessHoursStart = viper.GetInt("scheduling.business_hours_start")
	cfg.Scheduling.BusinessHoursEnd = viper.GetInt("scheduling.business_hours_end")
	cfg.Scheduling.SlotCount = viper.GetInt("scheduling.slot_count")
	cfg.Scheduling.RetryAttempts = viper.GetInt("scheduling.retry_attempts")
	cfg.Scheduling.RetryDelay = viper.GetDuration("scheduling.retry_delay")

	// Google Calendar
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// ICS feed (optional read-only busy source)
	cfg.ICSFeed.URL = viper.GetString("ics_feed.url")
	if icsURL := viper.GetString("ics_feed_url"); icsURL != "" {
		cfg.ICSFeed.URL = icsURL
	}

	// Booking log
	cfg.BookingLog.Path = viper.GetString("booking_log.path")

	// Redis (optional slot locking)
	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.LockTTL = viper.GetDuration("redis.lock_ttl")
	if redisAddr := viper.GetString("redis_addr"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}

	// Voice platform
	cfg.Vapi.Secret = viper.GetString("vapi.secret")
	cfg.Vapi.RateLimitPerMin = viper.GetInt("vapi.rate_limit_per_min")
	if vapiSecret := viper.GetString("vapi_secret"); vapiSecret != "" {
		cfg.Vapi.Secret = vapiSecret
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("scheduling.timezone", "America/New_York")
	viper.SetDefault("scheduling.default_duration_minutes", 30)
	viper.SetDefault("scheduling.business_hours_start", 9)
	viper.SetDefault("scheduling.business_hours_end", 18)
	viper.SetDefault("scheduling.slot_count", 3)
	viper.SetDefault("scheduling.retry_attempts", 1)
	viper.SetDefault("scheduling.retry_delay", "500ms")

	viper.SetDefault("google_calendar.calendar_id", "primary")
	viper.SetDefault("booking_log.path", "bookings.db")
	viper.SetDefault("redis.lock_ttl", "10s")
	viper.SetDefault("vapi.rate_limit_per_min", 60)
}
