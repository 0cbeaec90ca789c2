package relay

import (
	"fmt"
	"net/http"
)

// InvalidPhoneNumberError is returned when a raw string is not a valid phone number.
type InvalidPhoneNumberError struct {
	Raw    string
	Reason string
}

func (e *InvalidPhoneNumberError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Invalid phone number in HTTP POST: %s", e.Raw)
	}
	return fmt.Sprintf("Invalid phone number in HTTP POST: %s: %s", e.Raw, e.Reason)
}

// HTTPStatus implements the status contract used by httpkit.
func (e *InvalidPhoneNumberError) HTTPStatus() int { return http.StatusBadRequest }

// InvalidPhoneNumberInEmailError is returned when the local part of a
// synthetic address does not decode to a phone number.
type InvalidPhoneNumberInEmailError struct {
	Email string
}

func (e *InvalidPhoneNumberInEmailError) Error() string {
	return fmt.Sprintf("Invalid phone number in email address: %s", e.Email)
}

// HTTPStatus implements the status contract used by httpkit.
func (e *InvalidPhoneNumberInEmailError) HTTPStatus() int { return http.StatusBadRequest }

// NoEmailForNumberError is returned when no address is configured for a phone number.
type NoEmailForNumberError struct {
	Phone PhoneNumber
}

func (e *NoEmailForNumberError) Error() string {
	return fmt.Sprintf("No email address is configured to receive SMS messages sent to '%s' - Try updating the address book?", e.Phone)
}

// HTTPStatus implements the status contract used by httpkit.
func (e *NoEmailForNumberError) HTTPStatus() int { return http.StatusBadRequest }

// NoNumberForEmailError is returned when an email address may not send SMS.
type NoNumberForEmailError struct {
	Email EmailAddress
}

func (e *NoNumberForEmailError) Error() string {
	return fmt.Sprintf("The email address '%s' is not configured to send SMS via this application - Try updating the address book?", e.Email)
}

// HTTPStatus implements the status contract used by httpkit.
func (e *NoNumberForEmailError) HTTPStatus() int { return http.StatusBadRequest }
