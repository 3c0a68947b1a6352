package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone names resolve without system zoneinfo
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// AuthConfig contains authentication settings. Tokens are normally issued by
// the identity provider; TokenLifetimeMinutes only applies to development
// tokens minted by cmd/token-generator.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	ClockSkewSeconds     int    `mapstructure:"clock_skew_seconds" validate:"gte=0"`
}

// SchedulerConfig tunes the Leitner scheduler.
type SchedulerConfig struct {
	Box1IntervalHours int    `mapstructure:"box1_interval_hours" validate:"gt=0"`
	Box2IntervalHours int    `mapstructure:"box2_interval_hours" validate:"gtfield=Box1IntervalHours"`
	Box3IntervalHours int    `mapstructure:"box3_interval_hours" validate:"gtfield=Box2IntervalHours"`
	DailyLimit        int    `mapstructure:"daily_limit" validate:"gt=0"`
	CatchupCap        int    `mapstructure:"catchup_cap" validate:"gt=0"`
	SessionSize       int    `mapstructure:"session_size" validate:"gt=0"`
	Timezone          string `mapstructure:"timezone" validate:"required"`
	MaxReviewAttempts int    `mapstructure:"max_review_attempts" validate:"gte=1,lte=10"`
}

// Location resolves Timezone.
func (s SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// CacheConfig selects and tunes the queue summary cache.
type CacheConfig struct {
	Backend    string `mapstructure:"backend" validate:"required,oneof=memory redis none"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
	RedisURL   string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
