// Package config loads and validates application settings from an optional
// YAML file and LEITNER_-prefixed environment variables.
package config
