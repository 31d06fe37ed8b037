// Package errors holds the error shape returned to HTTP clients.
package errors

import "net/http"

// DomainError is a failure as the client sees it: a stable code, a message
// fit for display, and the HTTP status it maps to.
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"error"`
	Status  int               `json:"-"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *DomainError) Error() string { return e.Message }
func (e *DomainError) Unwrap() error { return e.Err }

// Is matches another DomainError by code so the package values below work
// as sentinels after With* copies.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy carrying message.
func (e *DomainError) WithMessage(message string) *DomainError {
	c := *e
	c.Message = message
	return &c
}

// WithFields returns a copy carrying per-field messages.
func (e *DomainError) WithFields(fields map[string]string) *DomainError {
	c := *e
	c.Fields = fields
	return &c
}

// Wrap returns a copy whose cause is err.
func (e *DomainError) Wrap(err error) *DomainError {
	c := *e
	c.Err = err
	return &c
}

var (
	ErrStoreLoading = &DomainError{
		Code:    "STORE_LOADING",
		Message: "Please wait, data is still loading",
		Status:  http.StatusServiceUnavailable,
	}
	ErrValidation = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "Please check the highlighted fields",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrBadRequest = &DomainError{
		Code:    "BAD_REQUEST",
		Message: "Invalid request format",
		Status:  http.StatusBadRequest,
	}
	ErrInternal = &DomainError{
		Code:    "INTERNAL",
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
)

// Cart and voucher
var (
	ErrInvalidQuantity = &DomainError{
		Code:    "INVALID_QUANTITY",
		Message: "Invalid quantity",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidItem = &DomainError{
		Code:    "INVALID_ITEM",
		Message: "Failed to add item to cart",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrItemNotFound = &DomainError{
		Code:    "ITEM_NOT_FOUND",
		Message: "Item not found in cart",
		Status:  http.StatusNotFound,
	}
	ErrVoucherNotFound = &DomainError{
		Code:    "VOUCHER_NOT_FOUND",
		Message: "This voucher code is not valid.",
		Status:  http.StatusNotFound,
	}
	ErrVoucherRejected = &DomainError{
		Code:    "VOUCHER_REJECTED",
		Message: "Failed to apply voucher",
		Status:  http.StatusUnprocessableEntity,
	}
)

// Cards, addresses and profile
var (
	ErrInvalidCard = &DomainError{
		Code:    "INVALID_CARD",
		Message: "Card details are invalid",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrCardNotFound = &DomainError{
		Code:    "CARD_NOT_FOUND",
		Message: "Card not found",
		Status:  http.StatusNotFound,
	}
	ErrInvalidAddress = &DomainError{
		Code:    "INVALID_ADDRESS",
		Message: "Please fill all fields",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrAddressNotFound = &DomainError{
		Code:    "ADDRESS_NOT_FOUND",
		Message: "Address not found",
		Status:  http.StatusNotFound,
	}
	ErrInvalidProfile = &DomainError{
		Code:    "INVALID_PROFILE",
		Message: "Profile is invalid",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrNotSignedIn = &DomainError{
		Code:    "NOT_SIGNED_IN",
		Message: "No profile saved on this device",
		Status:  http.StatusNotFound,
	}
)

// Checkout and catalog
var (
	ErrCheckoutRejected = &DomainError{
		Code:    "CHECKOUT_REJECTED",
		Message: "Unable to place order",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidPaymentMethod = &DomainError{
		Code:    "INVALID_PAYMENT_METHOD",
		Message: "Please select a payment method",
		Status:  http.StatusBadRequest,
	}
	ErrProductNotFound = &DomainError{
		Code:    "PRODUCT_NOT_FOUND",
		Message: "Product not found",
		Status:  http.StatusNotFound,
	}
	ErrCatalogUnavailable = &DomainError{
		Code:    "CATALOG_UNAVAILABLE",
		Message: "Product catalog is not available",
		Status:  http.StatusServiceUnavailable,
	}
)
