package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Security is the optional admin authentication policy file.
//
//	auth:
//	  min_password_length: 16
//	  weak_passwords: ["inkwell", "blog"]
//	jwt:
//	  expiry_hours: 12
type Security struct {
	Auth struct {
		MinPasswordLength int      `yaml:"min_password_length"`
		WeakPasswords     []string `yaml:"weak_passwords"`
	} `yaml:"auth"`
	JWT struct {
		ExpiryHours int `yaml:"expiry_hours"`
	} `yaml:"jwt"`
}

// DefaultSecurity is used when no policy file is configured.
func DefaultSecurity() *Security {
	s := &Security{}
	s.Auth.MinPasswordLength = 12
	s.JWT.ExpiryHours = 24
	return s
}

// LoadSecurity reads a policy file. Omitted fields keep DefaultSecurity values.
// The path comes from SECURITY_CONFIG_FILE, never from a request.
func LoadSecurity(path string) (*Security, error) {
	// #nosec G304 -- operator supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read security config: %w", err)
	}

	s := DefaultSecurity()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse security config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("security config validation failed: %w", err)
	}
	return s, nil
}

func (s *Security) validate() error {
	if s.Auth.MinPasswordLength < 8 {
		return fmt.Errorf("min_password_length must be at least 8")
	}
	if s.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry_hours must be positive")
	}
	return nil
}

// TokenTTL returns the JWT lifetime.
func (s *Security) TokenTTL() time.Duration {
	return time.Duration(s.JWT.ExpiryHours) * time.Hour
}
