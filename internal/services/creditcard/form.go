package creditcard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"labanita/internal/models"
	"labanita/internal/validation"
)

// FieldErrors maps a form field to its message. Every field of the add-card
// form is present; an empty message means the field passed.
type FieldErrors map[string]string

// Valid reports whether no field has a message.
func (f FieldErrors) Valid() bool {
	for _, msg := range f {
		if msg != "" {
			return false
		}
	}
	return true
}

// Failed returns only the fields that carry a message.
func (f FieldErrors) Failed() map[string]string {
	out := make(map[string]string)
	for field, msg := range f {
		if msg != "" {
			out[field] = msg
		}
	}
	return out
}

var cardFields = []string{
	validation.FieldCardHolder,
	validation.FieldCardNumber,
	validation.FieldExpiryDate,
	validation.FieldCVV,
}

// ValidateCardForm checks every field of form. Number checks run in the
// order required, Luhn, network; the first failure per field is reported.
func ValidateCardForm(form models.CardForm, now time.Time) FieldErrors {
	v := validation.New()

	validateHolder(v, form.HolderName)

	number := strings.Join(strings.Fields(form.Number), "")
	switch {
	case number == "":
		v.AddError(validation.FieldCardNumber, "Card number is required")
	case !ValidateLuhn(number):
		v.AddError(validation.FieldCardNumber, "Invalid card number")
	case form.Type == models.CardTypeNone:
		v.AddError(validation.FieldCardNumber, "Unsupported card type")
	}

	validateExpiry(v, form.Expiry, now)

	want := CVVLength(form.Type)
	switch {
	case form.CVV == "":
		v.AddError(validation.FieldCVV, "CVV is required")
	case len(form.CVV) != want || Digits(form.CVV) != form.CVV:
		v.AddError(validation.FieldCVV, fmt.Sprintf("CVV must be %d digits", want))
	}

	return toFieldErrors(v, cardFields)
}

func validateHolder(v *validation.Validator, holder string) {
	v.Required(validation.FieldCardHolder, holder, "Card holder name is required")
	if !v.Has(validation.FieldCardHolder) {
		v.Check(validation.IsHolderName(holder), validation.FieldCardHolder, "Invalid card holder name")
	}
}

// validateExpiry accepts MM/YY. A card is valid through the whole of its
// expiry month.
func validateExpiry(v *validation.Validator, expiry string, now time.Time) {
	parts := strings.Split(expiry, "/")
	if len(parts) < 2 || !isTwoDigits(parts[0]) || !isTwoDigits(parts[1]) {
		v.AddError(validation.FieldExpiryDate, "Invalid expiry date")
		return
	}

	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])
	if month < 1 || month > 12 {
		v.AddError(validation.FieldExpiryDate, "Invalid month")
		return
	}

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		v.AddError(validation.FieldExpiryDate, "Card has expired")
	}
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && Digits(s) == s
}

func toFieldErrors(v *validation.Validator, fields []string) FieldErrors {
	out := make(FieldErrors, len(fields))
	for _, f := range fields {
		out[f] = v.Field(f)
	}
	return out
}
