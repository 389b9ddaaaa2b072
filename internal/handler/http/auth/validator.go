package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultWeakPasswords are rejected as the admin password, as are short
// variations that start with one of them.
var DefaultWeakPasswords = []string{
	"admin", "admin1", "admin123", "blog", "default", "letmein", "password",
	"password1", "password123", "qwerty", "root", "secret", "test", "welcome",
	"123456", "12345678", "abc123",
}

// DefaultMinPasswordLength is the minimum admin password length.
const DefaultMinPasswordLength = 12

// keyboardRows are rejected anywhere in the password, forwards or backwards.
var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "qwerty", "asdfgh", "zxcvb"}

// ValidateAdminCredentials checks the configured admin account at startup.
// minLength <= 0 and weak == nil select the defaults.
// The error is safe to log: it never contains the password.
func ValidateAdminCredentials(user, pass string, minLength int, weak []string) error {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	if weak == nil {
		weak = DefaultWeakPasswords
	}
	if err := checkPassword(user, pass, minLength, weak); err != nil {
		return fmt.Errorf("admin credentials validation failed: %w", err)
	}
	return nil
}

func checkPassword(user, pass string, minLength int, weak []string) error {
	lower := strings.ToLower(pass)
	switch {
	case user == "":
		return errors.New("ADMIN_USER must not be empty")
	case pass == "":
		return errors.New("ADMIN_USER_PASSWORD must not be empty")
	case len(pass) < minLength:
		return fmt.Errorf("ADMIN_USER_PASSWORD must be at least %d characters (current length: %d)", minLength, len(pass))
	// 数字列・キーボード配列は弱いパスワード一覧より先に判定する
	case repeated(pass) || digitRun(pass):
		return errors.New("ADMIN_USER_PASSWORD must not be a simple numeric pattern")
	case slices.ContainsFunc(keyboardRows, func(row string) bool {
		return strings.Contains(lower, row) || strings.Contains(lower, reversed(row))
	}):
		return errors.New("ADMIN_USER_PASSWORD must not be a keyboard pattern")
	case len(user) >= 3 && strings.Contains(lower, strings.ToLower(user)):
		return errors.New("ADMIN_USER_PASSWORD must not contain ADMIN_USER")
	case slices.ContainsFunc(weak, func(w string) bool { return strings.EqualFold(w, pass) }):
		return errors.New("ADMIN_USER_PASSWORD must not be a weak password")
	// "admin1234567890" のような派生も短いうちは拒否
	case len(pass) < minLength+5 && slices.ContainsFunc(weak, func(w string) bool {
		return strings.HasPrefix(lower, strings.ToLower(w))
	}):
		return errors.New("ADMIN_USER_PASSWORD must not be based on common weak passwords")
	}
	return nil
}

// repeated reports a password made of one character.
func repeated(s string) bool {
	return s != "" && strings.Count(s, s[:1]) == len(s)
}

// digitRun reports an all-digit password that counts up or down by one,
// wrapping 9 to 0 (e.g. "789012").
func digitRun(s string) bool {
	if strings.TrimLeft(s, "0123456789") != "" {
		return false
	}
	up, down := true, true
	for i := 1; i < len(s); i++ {
		step := (int(s[i]) - int(s[i-1]) + 10) % 10
		up = up && step == 1
		down = down && step == 9
	}
	return up || down
}

func reversed(s string) string {
	b := []byte(s)
	slices.Reverse(b)
	return string(b)
}
