package validator

import (
	"errors"
	"testing"
)

type sample struct {
	To   string `validate:"required,e164_canonical"`
	Body string `validate:"required"`
}

func TestStructReportsFailingFields(t *testing.T) {
	val := New()

	err := val.Struct(sample{To: "4155551212"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	got := Describe(err)
	if got != "To failed 'e164_canonical', Body failed 'required'" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestStructAcceptsValidInput(t *testing.T) {
	if err := New().Struct(sample{To: "+14155551212", Body: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCanonicalE164RejectsNonCanonicalForms(t *testing.T) {
	val := New()
	for _, to := range []string{"4155551212", "14155551212", "+1 415 555 1212", "+1-415-555-1212", "+10000000000"} {
		if err := val.Struct(sample{To: to, Body: "hi"}); err == nil {
			t.Fatalf("expected %q to be rejected", to)
		}
	}
	for _, to := range []string{"+14155551212", "+442073238299"} {
		if err := val.Struct(sample{To: to, Body: "hi"}); err != nil {
			t.Fatalf("expected %q to be accepted: %v", to, err)
		}
	}
}

func TestDescribePlainError(t *testing.T) {
	if Describe(errors.New("boom")) != "boom" {
		t.Fatal("plain errors should be passed through")
	}
}
