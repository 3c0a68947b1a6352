package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// LEITNER_DATABASE_URL for database.url.
const EnvPrefix = "LEITNER"

// keys without a default need an explicit env binding so Unmarshal sees them.
var boundKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"cache.redis_url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.clock_skew_seconds", 120)

	v.SetDefault("scheduler.box1_interval_hours", 24)
	v.SetDefault("scheduler.box2_interval_hours", 72)
	v.SetDefault("scheduler.box3_interval_hours", 168)
	v.SetDefault("scheduler.daily_limit", 50)
	v.SetDefault("scheduler.catchup_cap", 20)
	v.SetDefault("scheduler.session_size", 20)
	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.max_review_attempts", 3)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl_seconds", 300)
}

// Load reads configuration from an optional config.yaml in the working
// directory and from LEITNER_* environment variables. Environment variables
// take precedence over the file.
func Load() (*Config, error) {
	return load("")
}

// LoadFromFile is Load with an explicit config file path. The file must exist.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := cfg.Scheduler.Location(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
