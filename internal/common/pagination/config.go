// Package pagination turns raw page/limit/sort/order query values into a bounded,
// validated offset window and builds the pagination envelope shared by every list endpoint.
package pagination

import (
	"inkwell/pkg/config"
)

// Config bounds page windows. Every list endpoint shares MaxLimit and
// picks its own DefaultLimit.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig is page 1, 20 per page, at most 100.
func DefaultConfig() Config {
	return Config{DefaultPage: 1, DefaultLimit: 20, MaxLimit: 100}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT. A non-positive value, or a default limit above the
// max, is replaced so the result is always usable.
func LoadFromEnv() Config {
	def := DefaultConfig()
	c := Config{
		DefaultPage:  config.GetEnvInt("PAGINATION_DEFAULT_PAGE", def.DefaultPage),
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	return c.normalized(def)
}

func (c Config) normalized(def Config) Config {
	if c.DefaultPage < 1 {
		c.DefaultPage = def.DefaultPage
	}
	if c.MaxLimit < 1 {
		c.MaxLimit = def.MaxLimit
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = min(def.DefaultLimit, c.MaxLimit)
	}
	return c
}

// WithDefaultLimit is c with its default page size set to limit, capped at MaxLimit.
// Articles use 10 and comments 20.
func (c Config) WithDefaultLimit(limit int) Config {
	if limit > 0 {
		c.DefaultLimit = min(limit, c.MaxLimit)
	}
	return c
}
