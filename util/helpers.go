// Package util provides small string and query helpers shared by the handlers.
//
//revive:disable-next-line:var-naming
package util

import (
	"strconv"
	"strings"
)

// SanitizeKey ensures the database key is valid for ArangoDB
// ArangoDB keys cannot contain spaces, slashes, or brackets
func SanitizeKey(key string) string {
	key = strings.TrimSpace(key)

	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"[", "",
		"]", "",
		"(", "",
		")", "",
	)

	return replacer.Replace(key)
}

// IsEmpty checks if a string is empty after trimming whitespace
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// GetStringOrDefault returns the value if not empty, otherwise returns the default
func GetStringOrDefault(value, defaultValue string) string {
	if IsEmpty(value) {
		return defaultValue
	}
	return value
}

// ParseLimit reads a positive integer query value, returning def when the
// value is missing or invalid and capping the result at max.
func ParseLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}
