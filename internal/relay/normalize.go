// Package relay resolves phone numbers and email addresses for both
// directions of the SMS/email relay.
package relay

import "sms_relay_backend/platform/phone"

// PhoneNumber is a canonical E.164 phone number. Produce it with Normalize.
type PhoneNumber string

// EmailAddress is an opaque local-part@domain address.
type EmailAddress string

func (p PhoneNumber) String() string  { return string(p) }
func (e EmailAddress) String() string { return string(e) }

// Normalize parses raw under region rules and returns its E.164 form.
func Normalize(raw, region string) (PhoneNumber, error) {
	canonical, err := phone.Parse(raw, region)
	if err != nil {
		return "", &InvalidPhoneNumberError{Raw: raw, Reason: err.Error()}
	}
	return PhoneNumber(canonical), nil
}
