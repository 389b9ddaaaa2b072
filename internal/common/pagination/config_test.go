package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/internal/common/pagination"
)

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name                 string
		page, limit, ceiling string
		want                 pagination.Config
	}{
		{name: "unset", want: pagination.DefaultConfig()},
		{name: "all set", page: "2", limit: "30", ceiling: "200", want: pagination.Config{DefaultPage: 2, DefaultLimit: 30, MaxLimit: 200}},
		{name: "garbage ignored", page: "-1", limit: "abc", ceiling: "0", want: pagination.DefaultConfig()},
		{name: "default above max", page: "1", limit: "500", ceiling: "50", want: pagination.Config{DefaultPage: 1, DefaultLimit: 20, MaxLimit: 50}},
		{name: "max below default", ceiling: "5", want: pagination.Config{DefaultPage: 1, DefaultLimit: 5, MaxLimit: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAGINATION_DEFAULT_PAGE", tt.page)
			t.Setenv("PAGINATION_DEFAULT_LIMIT", tt.limit)
			t.Setenv("PAGINATION_MAX_LIMIT", tt.ceiling)
			assert.Equal(t, tt.want, pagination.LoadFromEnv())
		})
	}
}

func TestConfig_WithDefaultLimit(t *testing.T) {
	base := pagination.DefaultConfig()

	assert.Equal(t, 10, base.WithDefaultLimit(10).DefaultLimit)
	assert.Equal(t, 100, base.WithDefaultLimit(1000).DefaultLimit, "capped at max")
	assert.Equal(t, 20, base.WithDefaultLimit(0).DefaultLimit, "zero keeps the default")
	assert.Equal(t, 20, base.DefaultLimit, "receiver untouched")
}
