package entity

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// emailPattern is the loose address check used by comments and subscriptions.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the basic shape of an email address.
// Returns a ValidationError on the given field if it does not look like an address.
func ValidateEmail(field, email string) error {
	if email == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return &ValidationError{Field: field, Message: "must be a valid email address"}
	}
	return nil
}

// ValidateImageURL validates a cover image reference.
// Site-relative paths (e.g. /uploads/images/...) and absolute http(s) URLs are accepted.
func ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	// DoS protection: enforce maximum URL length
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "cover_image",
			Message: fmt.Sprintf("must not exceed %d characters", maxURLLength),
		}
	}

	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		return nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "cover_image", Message: "must be a valid URL"}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "cover_image", Message: "must use http or https scheme"}
	}

	// ホスト名の検証
	if parsedURL.Host == "" {
		return &ValidationError{Field: "cover_image", Message: "must have a valid host"}
	}

	return nil
}

// MaxBatchSize bounds the ids accepted by batch operations.
const MaxBatchSize = 100

// ValidateIDs checks the id list of a batch operation.
func ValidateIDs(ids []int64) error {
	if len(ids) == 0 {
		return &ValidationError{Field: "ids", Message: "must not be empty"}
	}
	if len(ids) > MaxBatchSize {
		return &ValidationError{Field: "ids", Message: fmt.Sprintf("must not exceed %d items", MaxBatchSize)}
	}
	for _, id := range ids {
		if id <= 0 {
			return &ValidationError{Field: "ids", Message: "must be positive integers"}
		}
	}
	return nil
}
