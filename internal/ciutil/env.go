package ciutil

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	EnvDatabaseURL        = "DATABASE_URL"
	EnvLeitnerTestDBURL   = "LEITNER_TEST_DB_URL"
	EnvLeitnerDatabaseURL = "LEITNER_DATABASE_URL"
)

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetEnvWithFallbacks returns the first non-empty variable in envVars, or
// defaultValue. Using anything but the first name logs a warning.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, name := range envVars {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Warn("using fallback environment variable",
				slog.String("used_var", name),
				slog.String("preferred_var", envVars[0]),
				slog.String("value", MaskSensitiveValue(val)))
		}
		return val
	}
	return defaultValue
}

// MaskSensitiveValue hides the password of a URL-shaped value, for example a
// postgres or redis connection string. Other values are returned unchanged.
func MaskSensitiveValue(value string) string {
	u, err := url.Parse(value)
	if err != nil || u.User == nil || u.Scheme == "" {
		return value
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return value
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	// url.String percent-encodes the mask
	return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
}
