package utils

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)

	htmlPolicy = bluemonday.StrictPolicy()
)

// IsValidEmail reports whether the address has the basic local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPassword requires a minimum of 6 characters, no character-class rules.
func IsValidPassword(password string) bool {
	return len(password) >= 6
}

// IsValidUsername requires at least 3 characters, alphanumeric and underscore only.
func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// SanitizeInput trims leading and trailing whitespace; internal whitespace is preserved.
func SanitizeInput(input string) string {
	return strings.TrimSpace(input)
}

// IsNotEmpty reports whether the value has non-whitespace content.
func IsNotEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// StripHTML removes all markup from user supplied free-text fields before storage.
func StripHTML(input string) string {
	return strings.TrimSpace(htmlPolicy.Sanitize(input))
}
