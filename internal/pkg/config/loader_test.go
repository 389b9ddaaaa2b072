package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		want         string
		wantFallback bool
	}{
		{name: "unset uses default", env: "", want: "*/10 * * * *"},
		{name: "valid value", env: "0 * * * *", want: "0 * * * *"},
		{name: "invalid value falls back", env: "every minute", want: "*/10 * * * *", wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SCHEDULE", tt.env)
			r := String("TEST_SCHEDULE", "*/10 * * * *", ValidateCronSchedule)
			assert.Equal(t, tt.want, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
			if tt.wantFallback {
				assert.Contains(t, r.Warning, "TEST_SCHEDULE='every minute'")
				assert.Contains(t, r.Warning, "falling back to default '*/10 * * * *'")
			} else {
				assert.Empty(t, r.Warning)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	validate := DurationRange(time.Minute, 24*time.Hour)

	t.Run("valid", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "90s")
		r := Duration("TEST_TIMEOUT", 5*time.Minute, validate)
		assert.Equal(t, 90*time.Second, r.Value)
		assert.False(t, r.FallbackApplied)
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "soon")
		r := Duration("TEST_TIMEOUT", 5*time.Minute, validate)
		assert.Equal(t, 5*time.Minute, r.Value)
		assert.True(t, r.FallbackApplied)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "10s")
		r := Duration("TEST_TIMEOUT", 5*time.Minute, validate)
		assert.Equal(t, 5*time.Minute, r.Value)
		assert.Contains(t, r.Warning, "below minimum")
	})
}

func TestInt(t *testing.T) {
	validate := IntRange(1024, 65535)

	t.Setenv("TEST_PORT", "9091")
	assert.Equal(t, 9091, Int("TEST_PORT", 8081, validate).Value)

	t.Setenv("TEST_PORT", "80")
	r := Int("TEST_PORT", 8081, validate)
	assert.Equal(t, 8081, r.Value)
	assert.True(t, r.FallbackApplied)

	t.Setenv("TEST_PORT", "12.5")
	r = Int("TEST_PORT", 8081, validate)
	assert.Contains(t, r.Warning, "invalid integer format")
}

func TestBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "true")
	assert.True(t, Bool("TEST_FLAG", false).Value)

	t.Setenv("TEST_FLAG", "yes please")
	r := Bool("TEST_FLAG", false)
	assert.False(t, r.Value)
	assert.True(t, r.FallbackApplied)
}
