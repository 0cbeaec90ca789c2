package relay

import "sort"

// Entry pairs a canonical phone number with the address that receives its SMS.
type Entry struct {
	Phone PhoneNumber
	Email EmailAddress
}

// AddressBook is the read-only bidirectional phone/email mapping. It is
// never mutated after NewAddressBook returns.
type AddressBook struct {
	byPhone map[PhoneNumber]EmailAddress
	byEmail map[EmailAddress]PhoneNumber
	repeats []PhoneNumber
}

// NewAddressBook builds the mapping. A later entry for the same phone
// replaces the earlier one and the phone is reported by DuplicatePhones.
// The reverse map only holds pairs that survived in the forward map; on
// shared emails it keeps the last phone seen.
func NewAddressBook(entries []Entry) *AddressBook {
	b := &AddressBook{
		byPhone: make(map[PhoneNumber]EmailAddress, len(entries)),
		byEmail: make(map[EmailAddress]PhoneNumber, len(entries)),
	}

	seen := make(map[PhoneNumber]int, len(entries))
	for _, e := range entries {
		b.byPhone[e.Phone] = e.Email
		seen[e.Phone]++
		if seen[e.Phone] == 2 {
			b.repeats = append(b.repeats, e.Phone)
		}
	}
	sort.Slice(b.repeats, func(i, j int) bool { return b.repeats[i] < b.repeats[j] })

	for _, e := range entries {
		if b.byPhone[e.Phone] == e.Email {
			b.byEmail[e.Email] = e.Phone
		}
	}
	return b
}

// LookupEmailByPhone returns the address configured for phone.
func (b *AddressBook) LookupEmailByPhone(phone PhoneNumber) (EmailAddress, bool) {
	email, ok := b.byPhone[phone]
	return email, ok
}

// LookupPhoneByEmail returns the phone number configured for email.
func (b *AddressBook) LookupPhoneByEmail(email EmailAddress) (PhoneNumber, bool) {
	phone, ok := b.byEmail[email]
	return phone, ok
}

// HasDuplicateEmails reports whether two phone numbers share an address.
func (b *AddressBook) HasDuplicateEmails() bool {
	return len(b.byEmail) < len(b.byPhone)
}

// DuplicateEmails returns every address shared by more than one phone
// number, sorted.
func (b *AddressBook) DuplicateEmails() []EmailAddress {
	counts := make(map[EmailAddress]int, len(b.byEmail))
	for _, email := range b.byPhone {
		counts[email]++
	}

	var dups []EmailAddress
	for email, n := range counts {
		if n > 1 {
			dups = append(dups, email)
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i] < dups[j] })
	return dups
}

// DuplicatePhones returns every phone number configured more than once,
// sorted. Only the last of its entries is in effect.
func (b *AddressBook) DuplicatePhones() []PhoneNumber {
	return append([]PhoneNumber(nil), b.repeats...)
}

// Len returns the number of configured phone numbers.
func (b *AddressBook) Len() int {
	return len(b.byPhone)
}
