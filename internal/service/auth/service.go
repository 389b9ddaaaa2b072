// Package auth holds the admin authentication logic independent of HTTP.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role issued by the blog.
const RoleAdmin = "admin"

// DefaultTokenTTL is the lifetime of an issued admin token.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials is returned for any login failure so callers cannot tell which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Credentials represents authentication credentials.
type Credentials struct {
	Username string
	Password string
}

// CredentialRequirements defines password policy requirements.
type CredentialRequirements struct {
	MinPasswordLength int
	WeakPasswords     []string
}

// AuthProvider validates credentials and resolves the role of a user.
type AuthProvider interface {
	ValidateCredentials(ctx context.Context, creds Credentials) error
	IdentifyUser(ctx context.Context, username string) (string, error)
	GetRequirements() CredentialRequirements
	Name() string
}

// Claims are the JWT claims of an admin session.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService validates logins and issues HS256 tokens.
type AuthService struct {
	provider AuthProvider
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new authentication service. A non-positive ttl means DefaultTokenTTL.
func NewAuthService(provider AuthProvider, secret []byte, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{provider: provider, secret: secret, ttl: ttl, now: time.Now}
}

// ValidateCredentials validates user credentials via the configured provider.
func (s *AuthService) ValidateCredentials(ctx context.Context, creds Credentials) error {
	return s.provider.ValidateCredentials(ctx, creds)
}

// GetProvider returns the current authentication provider.
func (s *AuthService) GetProvider() AuthProvider {
	return s.provider
}

// Login checks creds and returns a signed token with its expiry.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (string, *Claims, error) {
	if err := s.provider.ValidateCredentials(ctx, creds); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	role, err := s.provider.IdentifyUser(ctx, creds.Username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	return s.Issue(creds.Username, role)
}

// Issue signs a token for subject with role.
func (s *AuthService) Issue(subject, role string) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies an HS256 token and returns its claims.
func (s *AuthService) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
