package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "security.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSecurity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, s *Security)
	}{
		{
			name: "full file",
			yaml: "auth:\n  min_password_length: 16\n  weak_passwords: [\"inkwell\", \"blog\"]\njwt:\n  expiry_hours: 12\n",
			check: func(t *testing.T, s *Security) {
				assert.Equal(t, 16, s.Auth.MinPasswordLength)
				assert.Equal(t, []string{"inkwell", "blog"}, s.Auth.WeakPasswords)
				assert.Equal(t, 12*time.Hour, s.TokenTTL())
			},
		},
		{
			name: "omitted fields keep defaults",
			yaml: "auth:\n  weak_passwords: [\"inkwell\"]\n",
			check: func(t *testing.T, s *Security) {
				assert.Equal(t, 12, s.Auth.MinPasswordLength)
				assert.Equal(t, 24*time.Hour, s.TokenTTL())
			},
		},
		{
			name:    "short minimum",
			yaml:    "auth:\n  min_password_length: 4\n",
			wantErr: "min_password_length must be at least 8",
		},
		{
			name:    "zero expiry",
			yaml:    "jwt:\n  expiry_hours: 0\n",
			wantErr: "expiry_hours must be positive",
		},
		{
			name:    "invalid yaml",
			yaml:    "auth: [",
			wantErr: "failed to parse security config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := LoadSecurity(writeFile(t, tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoadSecurity_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadSecurity(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read security config")
}
