package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"*/10 * * * *", "0 3 * * *", "30 9 * * 1-5"} {
		assert.NoError(t, ValidateCronSchedule(s), s)
	}
	for _, s := range []string{"", "* * * *", "61 * * * *", "@every"} {
		assert.Error(t, ValidateCronSchedule(s), s)
	}
	assert.ErrorIs(t, ValidateCronSchedule(""), errEmpty)
}

func TestValidateTimezone(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Tokyo"))
	assert.ErrorIs(t, ValidateTimezone(""), errEmpty)
	assert.ErrorContains(t, ValidateTimezone("Mars/Olympus"), `"Mars/Olympus"`)
}

func TestRange(t *testing.T) {
	t.Parallel()

	d := DurationRange(time.Minute, time.Hour)
	assert.NoError(t, d(time.Minute))
	assert.NoError(t, d(time.Hour))
	assert.ErrorContains(t, d(time.Second), "below minimum 1m0s")
	assert.ErrorContains(t, d(2*time.Hour), "exceeds maximum 1h0m0s")

	i := IntRange(1, 10)
	assert.NoError(t, i(1))
	assert.Error(t, i(0))
	assert.Error(t, i(11))

	f := Range(0.0, 1.0)
	assert.NoError(t, f(0.5))
	assert.Error(t, f(1.5))
}
