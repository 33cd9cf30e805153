package domain

import "strings"

// NormalizePostalCode trims and uppercases a postal code for use as a lookup
// or update key. Empty and whitespace-only values normalize to nil ("no
// postal code"), never to an empty string.
func NormalizePostalCode(raw string) *string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return nil
	}
	return &code
}
