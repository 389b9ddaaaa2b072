package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAuthProvider is a mock implementation of AuthProvider for testing
type mockAuthProvider struct {
	validateErr error
	role        string
	identifyErr error
}

func (m *mockAuthProvider) ValidateCredentials(context.Context, Credentials) error {
	return m.validateErr
}

func (m *mockAuthProvider) IdentifyUser(context.Context, string) (string, error) {
	return m.role, m.identifyErr
}

func (m *mockAuthProvider) GetRequirements() CredentialRequirements { return CredentialRequirements{} }

func (m *mockAuthProvider) Name() string { return "mock" }

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestLogin_IssuesToken(t *testing.T) {
	svc := NewAuthService(&mockAuthProvider{role: RoleAdmin}, testSecret, 0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	token, claims, err := svc.Login(context.Background(), Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, now.Add(24*time.Hour), claims.ExpiresAt.Time)

	parsed, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", parsed.Subject)
	assert.Equal(t, RoleAdmin, parsed.Role)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider *mockAuthProvider
	}{
		{name: "bad credentials", provider: &mockAuthProvider{validateErr: errors.New("invalid credentials")}},
		{name: "unknown user", provider: &mockAuthProvider{identifyErr: errors.New("user not found")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(tt.provider, testSecret, time.Hour)
			_, _, err := svc.Login(context.Background(), Credentials{Username: "x", Password: "y"})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewAuthService(&mockAuthProvider{role: RoleAdmin}, testSecret, time.Hour)
	svc.now = fixedClock(now)
	valid, _, err := svc.Issue("admin", RoleAdmin)
	require.NoError(t, err)

	other := NewAuthService(&mockAuthProvider{}, []byte("another-secret-another-secret-xx"), time.Hour)
	other.now = svc.now
	foreign, _, err := other.Issue("admin", RoleAdmin)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "admin", "role": "admin", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin", "role": "admin"}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		at    time.Time
	}{
		{name: "garbage", token: "not-a-token", at: now},
		{name: "wrong secret", token: foreign, at: now},
		{name: "alg none", token: none, at: now},
		{name: "missing exp", token: noExp, at: now},
		{name: "expired", token: valid, at: now.Add(2 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.now = fixedClock(tt.at)
			_, err := svc.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
