package relay

// Resolver answers routing questions for both relay directions.
type Resolver struct {
	book   *AddressBook
	region string
}

// NewResolver wraps book. Duplicate addresses do not fail construction;
// Diagnose reports them.
func NewResolver(book *AddressBook, region string) *Resolver {
	if book == nil {
		book = NewAddressBook(nil)
	}
	return &Resolver{book: book, region: region}
}

// PhoneForEmail returns the phone number an email sender sends SMS from.
func (r *Resolver) PhoneForEmail(email EmailAddress) (PhoneNumber, error) {
	phone, ok := r.book.LookupPhoneByEmail(email)
	if !ok {
		return "", &NoNumberForEmailError{Email: email}
	}
	return phone, nil
}

// EmailForPhone returns the address that receives SMS sent to rawPhone.
func (r *Resolver) EmailForPhone(rawPhone string) (EmailAddress, error) {
	phone, err := Normalize(rawPhone, r.region)
	if err != nil {
		return "", err
	}

	email, ok := r.book.LookupEmailByPhone(phone)
	if !ok {
		return "", &NoEmailForNumberError{Phone: phone}
	}
	return email, nil
}
