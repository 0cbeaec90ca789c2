// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no country code.
const DefaultRegion = "US"

// ErrNotValid is returned when a number parses but fails libphonenumber validation.
var ErrNotValid = errors.New("the string supplied is not a valid phone number")

// Parse parses input for the given region and returns it in E.164 form.
// Both parse failures and numbers rejected by IsValidNumber are errors.
func Parse(input, region string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", ErrNotValid
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	formatted, err := Parse(trimmed, region)
	if err != nil {
		return trimmed
	}
	return formatted
}

// Mask hides all but the last four digits, for log output.
func Mask(number string) string {
	if len(number) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
