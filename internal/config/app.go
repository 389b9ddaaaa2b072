// Package config assembles the process configuration of the API server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	envcfg "inkwell/pkg/config"
)

// EnvProduction is the APP_ENV value that hides error details from clients.
const EnvProduction = "production"

// App is the runtime configuration of cmd/api.
type App struct {
	Env             string
	Version         string
	HTTPAddr        string
	DatabaseURL     string
	RequestTimeout  time.Duration
	QueryTimeout    time.Duration
	JWTSecret       string
	AdminUser       string
	AdminPassword   string
	UploadDir       string
	UploadURLPrefix string
	UploadMaxBytes  int64
	SecurityFile    string
}

// LoadApp reads the App configuration from the environment.
//
// Environment variables:
//   - APP_ENV (default: development)
//   - VERSION (default: dev)
//   - HTTP_ADDR (default: :8080)
//   - DATABASE_URL
//   - REQUEST_TIMEOUT (default: 10s)
//   - DB_QUERY_TIMEOUT (default: 5s)
//   - JWT_SECRET, ADMIN_USER, ADMIN_USER_PASSWORD
//   - UPLOAD_DIR (default: uploads), UPLOAD_MAX_BYTES (default: 5 MiB)
//   - SECURITY_CONFIG_FILE (optional YAML, see LoadSecurity)
func LoadApp() App {
	return App{
		Env:             envcfg.GetEnvString("APP_ENV", "development"),
		Version:         envcfg.GetEnvString("VERSION", "dev"),
		HTTPAddr:        envcfg.GetEnvString("HTTP_ADDR", ":8080"),
		DatabaseURL:     envcfg.GetEnvString("DATABASE_URL", ""),
		RequestTimeout:  envcfg.GetEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		QueryTimeout:    envcfg.GetEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		JWTSecret:       envcfg.GetEnvString("JWT_SECRET", ""),
		AdminUser:       envcfg.GetEnvString("ADMIN_USER", ""),
		AdminPassword:   envcfg.GetEnvString("ADMIN_USER_PASSWORD", ""),
		UploadDir:       envcfg.GetEnvString("UPLOAD_DIR", "uploads"),
		UploadURLPrefix: "/uploads",
		UploadMaxBytes:  envcfg.GetEnvInt64("UPLOAD_MAX_BYTES", 5<<20),
		SecurityFile:    envcfg.GetEnvString("SECURITY_CONFIG_FILE", ""),
	}
}

// Production reports whether APP_ENV is production.
func (a App) Production() bool {
	return a.Env == EnvProduction
}

// MinJWTSecretLength is 256 bits.
const MinJWTSecretLength = 32

var weakJWTSecrets = []string{"secret", "password", "test", "admin", "default", "changeme"}

// ErrMissingJWTSecret is returned by ValidateJWTSecret for an empty secret.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// ValidateJWTSecret rejects empty, short and well-known secrets.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return ErrMissingJWTSecret
	}
	if len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters (256 bits)", MinJWTSecretLength)
	}
	// 同じ文字や弱い単語の繰り返しは長さを満たしていても拒否する
	if strings.Trim(secret, secret[:1]) == "" {
		return fmt.Errorf("JWT_SECRET must not repeat a single character")
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakJWTSecrets {
		if strings.Trim(strings.ReplaceAll(lower, weak, ""), "0123456789") == "" {
			return fmt.Errorf("JWT_SECRET must not be built from a common weak value")
		}
	}
	return nil
}
