package cart

import "errors"

var (
	ErrQuantityTooHigh = errors.New("quantity exceeds the per-item maximum")
	ErrQuantityTooLow  = errors.New("quantity is below 1")
	ErrInvalidLine     = errors.New("invalid cart line")
	ErrLineNotFound    = errors.New("cart line not found")
)

const (
	msgLoadFailed   = "Failed to load cart data"
	msgSaveFailed   = "Failed to save cart data"
	msgQuantityLow  = "Quantity cannot be less than 1"
	msgQuantityHigh = "Maximum quantity per item is %d"
	msgAddFailed    = "Failed to add item to cart"
	msgLineNotFound = "Item not found in cart"
)
