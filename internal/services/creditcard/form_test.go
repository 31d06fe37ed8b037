package creditcard

import (
	"testing"
	"time"

	"labanita/internal/models"
	"labanita/internal/validation"

	"github.com/stretchr/testify/assert"
)

var formNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

func validForm() models.CardForm {
	return models.CardForm{
		HolderName: "John Doe",
		Number:     "4532 0151 1283 0366",
		Expiry:     "12/27",
		CVV:        "123",
		Type:       models.CardTypeVisa,
	}
}

func TestValidateCardForm_Valid(t *testing.T) {
	errs := ValidateCardForm(validForm(), formNow)
	assert.True(t, errs.Valid())
	assert.Len(t, errs, 4)
	assert.Empty(t, errs.Failed())
}

func TestValidateCardForm_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *models.CardForm)
		field  string
		want   string
	}{
		{"holder blank", func(f *models.CardForm) { f.HolderName = "   " }, validation.FieldCardHolder, "Card holder name is required"},
		{"holder digits", func(f *models.CardForm) { f.HolderName = "J0hn" }, validation.FieldCardHolder, "Invalid card holder name"},
		{"number empty", func(f *models.CardForm) { f.Number = " " }, validation.FieldCardNumber, "Card number is required"},
		{"number luhn", func(f *models.CardForm) { f.Number = "1234567890123456" }, validation.FieldCardNumber, "Invalid card number"},
		{"number unsupported", func(f *models.CardForm) {
			f.Number = "6011111111111117"
			f.Type = models.CardTypeNone
		}, validation.FieldCardNumber, "Unsupported card type"},
		{"expiry shape", func(f *models.CardForm) { f.Expiry = "1/27" }, validation.FieldExpiryDate, "Invalid expiry date"},
		{"expiry missing year", func(f *models.CardForm) { f.Expiry = "12/" }, validation.FieldExpiryDate, "Invalid expiry date"},
		{"expiry month", func(f *models.CardForm) { f.Expiry = "13/27" }, validation.FieldExpiryDate, "Invalid month"},
		{"expiry zero month", func(f *models.CardForm) { f.Expiry = "00/27" }, validation.FieldExpiryDate, "Invalid month"},
		{"expired", func(f *models.CardForm) { f.Expiry = "12/20" }, validation.FieldExpiryDate, "Card has expired"},
		{"expired last month", func(f *models.CardForm) { f.Expiry = "05/25" }, validation.FieldExpiryDate, "Card has expired"},
		{"cvv empty", func(f *models.CardForm) { f.CVV = "" }, validation.FieldCVV, "CVV is required"},
		{"cvv short", func(f *models.CardForm) { f.CVV = "12" }, validation.FieldCVV, "CVV must be 3 digits"},
		{"cvv letters", func(f *models.CardForm) { f.CVV = "12a" }, validation.FieldCVV, "CVV must be 3 digits"},
		{"amex cvv", func(f *models.CardForm) {
			f.Number = "378282246310005"
			f.Type = models.CardTypeAmex
		}, validation.FieldCVV, "CVV must be 4 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			errs := ValidateCardForm(form, formNow)
			assert.False(t, errs.Valid())
			assert.Equal(t, tt.want, errs[tt.field])
			assert.Len(t, errs.Failed(), 1)
		})
	}
}

func TestValidateCardForm_CurrentMonthStillValid(t *testing.T) {
	form := validForm()
	form.Expiry = "06/25"
	assert.True(t, ValidateCardForm(form, formNow).Valid())
}

func TestValidateCardForm_ReportsEveryField(t *testing.T) {
	errs := ValidateCardForm(models.CardForm{}, formNow)

	assert.Equal(t, map[string]string{
		validation.FieldCardHolder: "Card holder name is required",
		validation.FieldCardNumber: "Card number is required",
		validation.FieldExpiryDate: "Invalid expiry date",
		validation.FieldCVV:        "CVV is required",
	}, errs.Failed())
}
