package validation

import (
	"strings"
)

// Validator collects field-level error messages. A field keeps the first
// message recorded for it.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator unless the field already has one.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; exists {
		return
	}
	v.Errors[field] = message
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Has reports whether field already failed.
func (v *Validator) Has(field string) bool {
	_, ok := v.Errors[field]
	return ok
}

// Field returns the message for field, or "" when it passed.
func (v *Validator) Field(field string) string {
	return v.Errors[field]
}

// Required adds message when value is blank after trimming.
func (v *Validator) Required(field, value, message string) {
	v.Check(strings.TrimSpace(value) != "", field, message)
}

// Email validates an optional email address.
func (v *Validator) Email(field, email, message string) {
	if email == "" {
		return
	}
	v.Check(IsEmail(email), field, message)
}

// Phone validates a required phone number.
func (v *Validator) Phone(field, phone, message string) {
	v.Check(IsPhone(phone), field, message)
}
