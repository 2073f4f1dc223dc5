// Package envutil reads OPENAPI_GUI_* configuration from the environment.
// Invalid values log a warning and fall back to the default.
package envutil

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Prefix starts every environment variable the project reads.
const Prefix = "OPENAPI_GUI_"

// String returns the value of Prefix+key, or fallback when unset.
func String(key, fallback string) string {
	if v := os.Getenv(Prefix + key); v != "" {
		return v
	}
	return fallback
}

// Bool parses Prefix+key with strconv.ParseBool.
func Bool(key string, fallback bool) bool {
	v := os.Getenv(Prefix + key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", Prefix+key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

// Int parses Prefix+key as a non-negative integer.
func Int(key string, fallback int) int {
	v := os.Getenv(Prefix + key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid int env var, using default", "key", Prefix+key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// Duration parses Prefix+key with time.ParseDuration. Non-positive
// durations are rejected.
func Duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(Prefix + key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", Prefix+key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
