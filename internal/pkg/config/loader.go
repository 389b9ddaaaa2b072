// Package config loads validated settings from the environment with a
// fail-open policy: a bad value is replaced by its default and reported as a
// warning instead of stopping the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one value.
type Result[T any] struct {
	Value T
	// Warning is set when the environment value was rejected.
	Warning         string
	FallbackApplied bool
}

// Load reads envKey, parses it and validates it. An unset or empty variable
// yields def without a warning; a value that fails parse or validate yields def
// with a warning. validate may be nil.
func Load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

func parseString(s string) (string, error) { return s, nil }

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer format")
	}
	return n, nil
}

// String loads a string value.
func String(envKey, def string, validate func(string) error) Result[string] {
	return Load(envKey, def, parseString, validate)
}

// Int loads a base-10 integer.
func Int(envKey string, def int, validate func(int) error) Result[int] {
	return Load(envKey, def, parseInt, validate)
}

// Duration loads a time.ParseDuration value such as "90s" or "12h".
func Duration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(envKey, def, time.ParseDuration, validate)
}

// Bool loads a strconv.ParseBool value.
func Bool(envKey string, def bool) Result[bool] {
	return Load(envKey, def, strconv.ParseBool, nil)
}
