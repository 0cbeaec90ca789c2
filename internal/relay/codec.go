package relay

import "strings"

// Codec maps phone numbers to synthetic addresses under a fixed domain and back.
type Codec struct {
	domain string
	region string
}

// NewCodec creates a codec for the given domain suffix and default region.
func NewCodec(domain, region string) Codec {
	return Codec{domain: domain, region: region}
}

// Domain returns the synthetic address domain.
func (c Codec) Domain() string {
	return c.domain
}

// PhoneToEmail returns the synthetic address for phone, e.g. 14155551212@domain.
func (c Codec) PhoneToEmail(phone PhoneNumber) EmailAddress {
	return EmailAddress(strings.TrimPrefix(string(phone), "+") + "@" + c.domain)
}

// EmailToPhone decodes the local part of a synthetic address. The domain is
// not checked.
func (c Codec) EmailToPhone(email string) (PhoneNumber, error) {
	local, rest, found := strings.Cut(email, "@")
	if !found || local == "" || strings.Contains(rest, "@") {
		return "", &InvalidPhoneNumberInEmailError{Email: email}
	}

	phone, err := Normalize("+"+local, c.region)
	if err != nil {
		return "", &InvalidPhoneNumberInEmailError{Email: email}
	}
	return phone, nil
}
