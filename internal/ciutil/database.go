package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
)

// Credentials CI database services are provisioned with.
const (
	StandardCIUser     = "postgres"
	StandardCIPassword = "postgres"
)

// GetTestDatabaseURL returns the integration test database URL from
// LEITNER_TEST_DB_URL, DATABASE_URL or LEITNER_DATABASE_URL, in that order.
// Under CI the credentials are replaced with the standard CI ones. An empty
// string means no database is configured.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(
		[]string{EnvLeitnerTestDBURL, EnvDatabaseURL, EnvLeitnerDatabaseURL}, "", logger)
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := standardizeDatabaseURL(dbURL)
	if err != nil {
		if logger != nil {
			logger.Error("failed to standardize database URL",
				slog.String("error", err.Error()),
				slog.String("url", MaskSensitiveValue(dbURL)))
		}
		return dbURL
	}
	return standardized
}

func standardizeDatabaseURL(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
	u.User = url.UserPassword(StandardCIUser, StandardCIPassword)
	return u.String(), nil
}
