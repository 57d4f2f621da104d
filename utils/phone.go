package utils

import "regexp"

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone reduces a raw phone string to its decimal digits, in the
// original order. Empty input yields an empty string. The result is the
// canonical key for rate limiting, verification lookup and vote storage.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	return nonDigits.ReplaceAllString(phone, "")
}
