package voucher

import (
	"time"

	"labanita/internal/models"
	"labanita/internal/utils/money"
)

// Validate checks v against the current subtotal. Status is checked before
// the expiry date, and both before the order minimum.
func Validate(v models.Voucher, subtotal float64, now time.Time) error {
	switch v.Status {
	case models.VoucherUsed:
		return ErrVoucherUsed
	case models.VoucherExpired:
		return ErrVoucherExpired
	}
	if v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return ErrVoucherExpired
	}
	if v.MinOrderAmount != nil && subtotal < *v.MinOrderAmount {
		return ErrBelowMinimum
	}
	return nil
}

// ComputeDiscount returns the discount v grants on subtotal. Percentage
// discounts are not capped, so the result may exceed subtotal.
func ComputeDiscount(v models.Voucher, subtotal float64) float64 {
	switch v.DiscountType {
	case models.DiscountPercentage:
		return money.Percent(subtotal, v.DiscountValue)
	case models.DiscountFixed:
		return money.Round2(v.DiscountValue)
	default:
		return 0
	}
}

// Evaluator pairs a Catalog with a clock.
type Evaluator struct {
	catalog Catalog
	now     func() time.Time
}

// NewEvaluator returns an Evaluator; now defaults to time.Now.
func NewEvaluator(catalog Catalog, now func() time.Time) *Evaluator {
	if catalog == nil {
		panic("voucher catalog is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Evaluator{catalog: catalog, now: now}
}

func (e *Evaluator) Lookup(code string) (models.Voucher, error) {
	return e.catalog.Lookup(code)
}

func (e *Evaluator) List() []models.Voucher {
	return e.catalog.List()
}

func (e *Evaluator) Validate(v models.Voucher, subtotal float64) error {
	return Validate(v, subtotal, e.now())
}

// Resolve looks code up and validates it against subtotal.
func (e *Evaluator) Resolve(code string, subtotal float64) (models.Voucher, error) {
	v, err := e.catalog.Lookup(code)
	if err != nil {
		return models.Voucher{}, err
	}
	if err := e.Validate(v, subtotal); err != nil {
		return models.Voucher{}, err
	}
	return v, nil
}
