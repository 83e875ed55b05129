// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// IsTenDigits reports whether the input is exactly ten numeric digits.
// Lead contact numbers are stored in this raw national form.
func IsTenDigits(input string) bool {
	if len(input) != 10 {
		return false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatDisplay renders a stored ten-digit number in national display form
// for alert cards and notification emails. If parsing fails, it returns the
// trimmed input unchanged.
func FormatDisplay(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.NATIONAL)
}
