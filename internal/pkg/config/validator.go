package config

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronParser accepts the standard five-field cron format.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var errEmpty = errors.New("cannot be empty")

// ValidateCronSchedule checks a five-field expression such as "*/10 * * * *".
func ValidateCronSchedule(schedule string) error {
	return nonEmpty("cron schedule", schedule, func(s string) error {
		_, err := CronParser.Parse(s)
		return err
	})
}

// ValidateTimezone checks an IANA zone name such as "Asia/Tokyo".
func ValidateTimezone(timezone string) error {
	return nonEmpty("timezone", timezone, func(s string) error {
		_, err := time.LoadLocation(s)
		return err
	})
}

func nonEmpty(what, v string, check func(string) error) error {
	if v == "" {
		return fmt.Errorf("invalid %s: %w", what, errEmpty)
	}
	if err := check(v); err != nil {
		return fmt.Errorf("invalid %s %q: %w", what, v, err)
	}
	return nil
}

// Range returns a validator accepting lo <= v <= hi.
func Range[T cmp.Ordered](lo, hi T) func(T) error {
	return func(v T) error {
		switch {
		case v < lo:
			return fmt.Errorf("%v is below minimum %v", v, lo)
		case v > hi:
			return fmt.Errorf("%v exceeds maximum %v", v, hi)
		}
		return nil
	}
}

// DurationRange is Range for durations.
func DurationRange(lo, hi time.Duration) func(time.Duration) error { return Range(lo, hi) }

// IntRange is Range for ints.
func IntRange(lo, hi int) func(int) error { return Range(lo, hi) }
