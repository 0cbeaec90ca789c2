// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"sms_relay_backend/platform/phone"

	"github.com/go-playground/validator/v10"
)

// TagCanonicalE164 accepts only numbers already in canonical E.164 form:
// a leading '+' and exactly what libphonenumber would format.
const TagCanonicalE164 = "e164_canonical"

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the application's custom tags.
func New() *Validator {
	val := &Validator{
		v: validator.New(),
	}
	if err := val.RegisterValidation(TagCanonicalE164, isCanonicalE164); err != nil {
		panic("register " + TagCanonicalE164 + ": " + err.Error())
	}
	return val
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Describe flattens validation errors into "Field failed 'tag'" fragments.
// Other errors are returned as their message.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func isCanonicalE164(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !strings.HasPrefix(value, "+") {
		return false
	}
	canonical, err := phone.Parse(value, phone.DefaultRegion)
	return err == nil && canonical == value
}
