// Package config reads typed settings from environment variables.
// A malformed value never aborts startup: it is logged and the default is used.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// fromEnv parses the trimmed value of key, falling back to def when the
// variable is unset, blank or rejected by parse.
func fromEnv[T any](key string, def T, kind string, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn(fmt.Sprintf("invalid %s value for environment variable, using default", kind),
			slog.String("key", key),
			slog.String("value", raw),
			slog.String("default", fmt.Sprint(def)),
			slog.String("error", err.Error()))
		return def
	}
	return v
}

// GetEnvString returns the value of key or def when it is unset.
// Unlike the typed helpers the value is not trimmed.
func GetEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt reads a decimal int, e.g. DB_MAX_OPEN_CONNS=25.
func GetEnvInt(key string, def int) int {
	return fromEnv(key, def, "integer", strconv.Atoi)
}

// GetEnvInt64 reads byte sizes and other values that may exceed int32.
func GetEnvInt64(key string, def int64) int64 {
	return fromEnv(key, def, "integer", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func GetEnvFloat(key string, def float64) float64 {
	return fromEnv(key, def, "float", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts what strconv.ParseBool accepts (1, t, true, 0, f, false...).
func GetEnvBool(key string, def bool) bool {
	return fromEnv(key, def, "boolean", strconv.ParseBool)
}

// GetEnvDuration reads a time.ParseDuration value such as "30s" or "720h".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return fromEnv(key, def, "duration", time.ParseDuration)
}

// GetEnvStringList splits a comma-separated value, dropping blank items:
//
//	CORS_ALLOWED_ORIGINS="https://blog.example.com, http://localhost:3000"
//
// def is returned when nothing is left.
func GetEnvStringList(key string, def []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
