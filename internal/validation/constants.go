package validation

// Form field keys used in field → message maps.
const (
	FieldCardHolder = "cardHolder"
	FieldCardNumber = "cardNumber"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"

	FieldName    = "name"
	FieldPhone   = "phone"
	FieldEmail   = "email"
	FieldTitle   = "title"
	FieldAddress = "address"
)
