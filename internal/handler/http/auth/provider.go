// Package auth provides the admin login endpoints and the JWT middleware
// protecting /api/admin.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	authservice "inkwell/internal/service/auth"
)

var errEmptyCredentials = errors.New("credentials must not be empty")

// BasicAuthProvider authenticates the single admin account configured at startup.
// Only digests are kept so comparisons take the same time whatever the input length.
type BasicAuthProvider struct {
	user, pass [sha256.Size]byte
	configured bool
	policy     authservice.CredentialRequirements
}

// NewBasicAuthProvider creates a provider for the admin account user / password.
// An empty user or password leaves the provider refusing every login.
func NewBasicAuthProvider(user, password string, minPasswordLength int, weakPasswords []string) *BasicAuthProvider {
	return &BasicAuthProvider{
		user:       sha256.Sum256([]byte(user)),
		pass:       sha256.Sum256([]byte(password)),
		configured: user != "" && password != "",
		policy: authservice.CredentialRequirements{
			MinPasswordLength: minPasswordLength,
			WeakPasswords:     weakPasswords,
		},
	}
}

var _ authservice.AuthProvider = (*BasicAuthProvider)(nil)

func (p *BasicAuthProvider) isUser(name string) bool {
	d := sha256.Sum256([]byte(name))
	return subtle.ConstantTimeCompare(d[:], p.user[:]) == 1
}

// ValidateCredentials checks both fields; the password is hashed even when the user is wrong.
func (p *BasicAuthProvider) ValidateCredentials(_ context.Context, creds authservice.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return errEmptyCredentials
	}
	pd := sha256.Sum256([]byte(creds.Password))
	passOK := subtle.ConstantTimeCompare(pd[:], p.pass[:]) == 1
	if !p.configured || !p.isUser(creds.Username) || !passOK {
		return authservice.ErrInvalidCredentials
	}
	return nil
}

// IdentifyUser returns RoleAdmin for the configured account.
func (p *BasicAuthProvider) IdentifyUser(_ context.Context, username string) (string, error) {
	if username == "" {
		return "", errEmptyCredentials
	}
	if !p.configured || !p.isUser(username) {
		return "", authservice.ErrInvalidCredentials
	}
	return authservice.RoleAdmin, nil
}

func (p *BasicAuthProvider) GetRequirements() authservice.CredentialRequirements { return p.policy }

func (p *BasicAuthProvider) Name() string { return "basic" }
