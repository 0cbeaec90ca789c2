package relay

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
)

const (
	testRegion = "US"
	testDomain = "sms.example.com"
)

func testBook() *AddressBook {
	return NewAddressBook([]Entry{{Phone: "+14155551212", Email: "alice@example.com"}})
}

func TestNormalizeAcceptsCommonForms(t *testing.T) {
	cases := []string{"4155551212", "(415) 555-1212", "+1 415 555 1212", "1-415-555-1212", " +14155551212 "}
	for _, raw := range cases {
		got, err := Normalize(raw, testRegion)
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", raw, err)
		}
		if got != "+14155551212" {
			t.Fatalf("Normalize(%q) = %q", raw, got)
		}
	}
}

func TestNormalizeIsIdempotentOnCanonicalInput(t *testing.T) {
	for _, canonical := range []string{"+14155551212", "+16505551234", "+442073238299", "+33142685300"} {
		got, err := Normalize(canonical, testRegion)
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", canonical, err)
		}
		if string(got) != canonical {
			t.Fatalf("Normalize(%q) = %q, want unchanged", canonical, got)
		}
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	for _, raw := range []string{"not-a-number", "", "12", "+1 000 000 0000"} {
		_, err := Normalize(raw, testRegion)
		var invalid *InvalidPhoneNumberError
		if !errors.As(err, &invalid) {
			t.Fatalf("Normalize(%q) expected InvalidPhoneNumberError, got %v", raw, err)
		}
		if invalid.Raw != raw {
			t.Fatalf("expected raw %q to be carried, got %q", raw, invalid.Raw)
		}
		if invalid.Reason == "" {
			t.Fatalf("expected parser reason for %q", raw)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec(testDomain, testRegion)
	for _, p := range []PhoneNumber{"+14155551212", "+442073238299", "+16505551234"} {
		email := codec.PhoneToEmail(p)
		back, err := codec.EmailToPhone(string(email))
		if err != nil {
			t.Fatalf("EmailToPhone(%q) unexpected error: %v", email, err)
		}
		if back != p {
			t.Fatalf("round trip of %q produced %q", p, back)
		}
	}
}

func TestCodecRejectsMalformedAddresses(t *testing.T) {
	codec := NewCodec(testDomain, testRegion)
	for _, email := range []string{"garbage-no-at-sign", "@sms.example.com", "1415@5551212@sms.example.com", "bob@sms.example.com"} {
		_, err := codec.EmailToPhone(email)
		var invalid *InvalidPhoneNumberInEmailError
		if !errors.As(err, &invalid) {
			t.Fatalf("EmailToPhone(%q) expected InvalidPhoneNumberInEmailError, got %v", email, err)
		}
		if invalid.Email != email {
			t.Fatalf("expected full address %q to be carried, got %q", email, invalid.Email)
		}
	}
}

func TestHasDuplicateEmails(t *testing.T) {
	dup := NewAddressBook([]Entry{
		{Phone: "+14155551212", Email: "a@x.com"},
		{Phone: "+16505551234", Email: "a@x.com"},
	})
	if !dup.HasDuplicateEmails() {
		t.Fatal("expected duplicate to be detected")
	}
	if !reflect.DeepEqual(dup.DuplicateEmails(), []EmailAddress{"a@x.com"}) {
		t.Fatalf("unexpected duplicates %v", dup.DuplicateEmails())
	}

	unique := NewAddressBook([]Entry{
		{Phone: "+14155551212", Email: "a@x.com"},
		{Phone: "+16505551234", Email: "b@x.com"},
	})
	if unique.HasDuplicateEmails() {
		t.Fatal("expected no duplicates")
	}
	if len(unique.DuplicateEmails()) != 0 {
		t.Fatal("expected empty duplicate list")
	}
}

func TestDuplicateEmailsKeepLastPhoneForLookup(t *testing.T) {
	book := NewAddressBook([]Entry{
		{Phone: "+14155551212", Email: "a@x.com"},
		{Phone: "+16505551234", Email: "a@x.com"},
	})
	resolver := NewResolver(book, testRegion)

	phone, err := resolver.PhoneForEmail("a@x.com")
	if err != nil {
		t.Fatalf("lookup must not fail on duplicates: %v", err)
	}
	if phone != "+16505551234" {
		t.Fatalf("expected last-seen phone, got %q", phone)
	}
}

func TestResolverLookups(t *testing.T) {
	resolver := NewResolver(testBook(), testRegion)

	email, err := resolver.EmailForPhone("4155551212")
	if err != nil || email != "alice@example.com" {
		t.Fatalf("EmailForPhone = %q, %v", email, err)
	}

	phone, err := resolver.PhoneForEmail("alice@example.com")
	if err != nil || phone != "+14155551212" {
		t.Fatalf("PhoneForEmail = %q, %v", phone, err)
	}

	again, err := resolver.EmailForPhone(string(phone))
	if err != nil || again != email {
		t.Fatalf("expected lookups to round trip, got %q, %v", again, err)
	}
}

func TestResolverErrors(t *testing.T) {
	resolver := NewResolver(testBook(), testRegion)

	_, err := resolver.EmailForPhone("not-a-number")
	var invalid *InvalidPhoneNumberError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidPhoneNumberError, got %v", err)
	}

	_, err = resolver.EmailForPhone("6505551234")
	var noEmail *NoEmailForNumberError
	if !errors.As(err, &noEmail) || noEmail.Phone != "+16505551234" {
		t.Fatalf("expected NoEmailForNumberError with canonical phone, got %v", err)
	}

	_, err = resolver.PhoneForEmail("unknown@x.com")
	var noNumber *NoNumberForEmailError
	if !errors.As(err, &noNumber) || noNumber.Email != "unknown@x.com" {
		t.Fatalf("expected NoNumberForEmailError, got %v", err)
	}
}

func TestErrorsReportBadRequest(t *testing.T) {
	errs := []interface{ HTTPStatus() int }{
		&InvalidPhoneNumberError{Raw: "x"},
		&InvalidPhoneNumberInEmailError{Email: "x"},
		&NoEmailForNumberError{Phone: "+14155551212"},
		&NoNumberForEmailError{Email: "x@y"},
	}
	for _, e := range errs {
		if e.HTTPStatus() != http.StatusBadRequest {
			t.Fatalf("%T reported %d", e, e.HTTPStatus())
		}
	}
}

func TestErrorMessages(t *testing.T) {
	got := (&NoEmailForNumberError{Phone: "+14155551212"}).Error()
	want := "No email address is configured to receive SMS messages sent to '+14155551212' - Try updating the address book?"
	if got != want {
		t.Fatalf("unexpected message %q", got)
	}

	got = (&NoNumberForEmailError{Email: "bob@x.com"}).Error()
	want = "The email address 'bob@x.com' is not configured to send SMS via this application - Try updating the address book?"
	if got != want {
		t.Fatalf("unexpected message %q", got)
	}

	got = (&InvalidPhoneNumberInEmailError{Email: "nope"}).Error()
	if got != "Invalid phone number in email address: nope" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestEndToEndScenario(t *testing.T) {
	resolver := NewResolver(testBook(), testRegion)
	codec := NewCodec(testDomain, testRegion)

	if email, _ := resolver.EmailForPhone("4155551212"); email != "alice@example.com" {
		t.Fatalf("EmailForPhone = %q", email)
	}
	if phone, _ := resolver.PhoneForEmail("alice@example.com"); phone != "+14155551212" {
		t.Fatalf("PhoneForEmail = %q", phone)
	}
	if email := codec.PhoneToEmail("+14155551212"); email != "14155551212@sms.example.com" {
		t.Fatalf("PhoneToEmail = %q", email)
	}
	if phone, _ := codec.EmailToPhone("14155551212@sms.example.com"); phone != "+14155551212" {
		t.Fatalf("EmailToPhone = %q", phone)
	}
}

func TestCheckRequiredSettings(t *testing.T) {
	lookup := SettingsMap{"EMAIL_DOMAIN": "sms.example.com", "TWILIO_AUTH_TOKEN": "  "}
	missing := CheckRequiredSettings([]string{"EMAIL_DOMAIN", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN"}, lookup)
	if !reflect.DeepEqual(missing, []string{"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN"}) {
		t.Fatalf("unexpected missing settings %v", missing)
	}
}

func TestDiagnoseReportsEverything(t *testing.T) {
	book := NewAddressBook([]Entry{
		{Phone: "+14155551212", Email: "a@x.com"},
		{Phone: "+16505551234", Email: "a@x.com"},
	})
	report := Diagnose([]string{"EMAIL_DOMAIN"}, SettingsMap{}, book)
	if report.OK() {
		t.Fatal("expected problems to be reported")
	}
	if len(report.Missing) != 1 || len(report.DuplicateEmails) != 1 {
		t.Fatalf("expected both problems in one report, got %+v", report)
	}

	clean := Diagnose([]string{"EMAIL_DOMAIN"}, SettingsMap{"EMAIL_DOMAIN": "x"}, testBook())
	if !clean.OK() {
		t.Fatalf("expected clean report, got %+v", clean)
	}
}

func TestRepeatedPhoneDropsStaleReverseEntry(t *testing.T) {
	book := NewAddressBook([]Entry{
		{Phone: "+14155551212", Email: "alice@example.com"},
		{Phone: "+16505551234", Email: "carol@example.com"},
		{Phone: "+14155551212", Email: "bob@example.com"},
	})

	if email, _ := book.LookupEmailByPhone("+14155551212"); email != "bob@example.com" {
		t.Fatalf("expected last entry to win, got %q", email)
	}
	if _, ok := book.LookupPhoneByEmail("alice@example.com"); ok {
		t.Fatal("replaced entry must not remain in the reverse map")
	}
	if phone, ok := book.LookupPhoneByEmail("bob@example.com"); !ok || phone != "+14155551212" {
		t.Fatalf("expected bob to map back to the phone, got %q, %v", phone, ok)
	}
	if book.HasDuplicateEmails() {
		t.Fatal("a repeated phone is not a shared email")
	}
	if !reflect.DeepEqual(book.DuplicatePhones(), []PhoneNumber{"+14155551212"}) {
		t.Fatalf("unexpected repeated phones %v", book.DuplicatePhones())
	}

	report := Diagnose(nil, SettingsMap{}, book)
	if report.OK() || len(report.DuplicatePhones) != 1 {
		t.Fatalf("expected repeated phone in report, got %+v", report)
	}
}

func TestRepeatedPhoneWithSameEmail(t *testing.T) {
	book := NewAddressBook([]Entry{
		{Phone: "+14155551212", Email: "alice@example.com"},
		{Phone: "+14155551212", Email: "alice@example.com"},
	})
	if phone, ok := book.LookupPhoneByEmail("alice@example.com"); !ok || phone != "+14155551212" {
		t.Fatalf("expected reverse lookup to survive, got %q, %v", phone, ok)
	}
	if len(book.DuplicatePhones()) != 1 {
		t.Fatal("expected the repeat to be reported")
	}
}
