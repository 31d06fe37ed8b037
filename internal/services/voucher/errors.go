package voucher

import (
	"errors"
	"fmt"

	"labanita/internal/models"
	"labanita/internal/utils/money"
)

var (
	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherExpired  = errors.New("voucher has expired")
	ErrVoucherUsed     = errors.New("voucher has already been used")
	ErrBelowMinimum    = errors.New("order is below the voucher minimum")
)

// UserMessage renders a voucher failure the way the vouchers screen shows it.
// v supplies the minimum for ErrBelowMinimum.
func UserMessage(err error, v models.Voucher) string {
	switch {
	case errors.Is(err, ErrVoucherNotFound):
		return "This voucher code is not valid."
	case errors.Is(err, ErrVoucherUsed):
		return "This voucher has already been used."
	case errors.Is(err, ErrVoucherExpired):
		return "This voucher has expired."
	case errors.Is(err, ErrBelowMinimum):
		if v.MinOrderAmount != nil {
			return fmt.Sprintf("Minimum order for this voucher is AED %s", money.Format(*v.MinOrderAmount))
		}
		return "Order total is below the voucher minimum"
	default:
		return "Failed to apply voucher"
	}
}
