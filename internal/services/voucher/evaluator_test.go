package voucher

import (
	"testing"
	"time"

	"labanita/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestValidate(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	past := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	minOrder := 100.0

	tests := []struct {
		name     string
		voucher  models.Voucher
		subtotal float64
		want     error
	}{
		{
			name:     "no constraints",
			voucher:  models.Voucher{Code: "FLAT", DiscountType: models.DiscountFixed, DiscountValue: 5},
			subtotal: 1,
		},
		{
			name:     "below minimum",
			voucher:  models.Voucher{Code: "WELCOME", DiscountType: models.DiscountFixed, DiscountValue: 14, MinOrderAmount: &minOrder},
			subtotal: 50,
			want:     ErrBelowMinimum,
		},
		{
			name:     "exactly minimum",
			voucher:  models.Voucher{Code: "WELCOME", DiscountType: models.DiscountFixed, DiscountValue: 14, MinOrderAmount: &minOrder},
			subtotal: 100,
		},
		{
			name:     "expired by date",
			voucher:  models.Voucher{Code: "OLD", DiscountType: models.DiscountFixed, DiscountValue: 5, ExpiresAt: &past},
			subtotal: 500,
			want:     ErrVoucherExpired,
		},
		{
			name:     "expired by status",
			voucher:  models.Voucher{Code: "OLD", Status: models.VoucherExpired},
			subtotal: 500,
			want:     ErrVoucherExpired,
		},
		{
			name:     "used",
			voucher:  models.Voucher{Code: "ONCE", Status: models.VoucherUsed, MinOrderAmount: &minOrder},
			subtotal: 10,
			want:     ErrVoucherUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.voucher, tt.subtotal, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	expires := time.Date(2025, time.March, 1, 23, 59, 59, 0, time.UTC)
	v := models.Voucher{Code: "EDGE", ExpiresAt: &expires}

	assert.NoError(t, Validate(v, 0, expires))
	assert.ErrorIs(t, Validate(v, 0, expires.Add(time.Second)), ErrVoucherExpired)
}

func TestComputeDiscount(t *testing.T) {
	pct := models.Voucher{DiscountType: models.DiscountPercentage, DiscountValue: 50}
	fixed := models.Voucher{DiscountType: models.DiscountFixed, DiscountValue: 14}

	assert.Equal(t, 60.0, ComputeDiscount(pct, 120))
	assert.Equal(t, 14.0, ComputeDiscount(fixed, 120))
	// fixed discounts are not capped at the subtotal
	assert.Equal(t, 14.0, ComputeDiscount(fixed, 5))
	assert.Equal(t, 3.33, ComputeDiscount(models.Voucher{DiscountType: models.DiscountPercentage, DiscountValue: 33.3}, 10))
	assert.Zero(t, ComputeDiscount(models.Voucher{DiscountType: "bogus", DiscountValue: 10}, 100))
}

func TestStaticCatalog_Lookup(t *testing.T) {
	c := DefaultCatalog()

	v, err := c.Lookup("sweet50")
	require.NoError(t, err)
	assert.Equal(t, "SWEET50", v.Code)
	assert.Equal(t, models.DiscountPercentage, v.DiscountType)

	_, err = c.Lookup("  welcome ")
	assert.NoError(t, err)

	_, err = c.Lookup("NOPE")
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestStaticCatalog_List(t *testing.T) {
	c := NewStaticCatalog(
		models.Voucher{Code: "zeta", DiscountType: models.DiscountFixed, DiscountValue: 1},
		models.Voucher{Code: "ALPHA", DiscountType: models.DiscountFixed, DiscountValue: 2},
	)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "ALPHA", list[0].Code)
	assert.Equal(t, "ZETA", list[1].Code)
	assert.Equal(t, models.VoucherAvailable, list[1].Status)
}

func TestEvaluator_Resolve(t *testing.T) {
	e := NewEvaluator(DefaultCatalog(), fixedNow(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))

	_, err := e.Resolve("WELCOME", 50)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	v, err := e.Resolve("welcome", 120)
	require.NoError(t, err)
	assert.Equal(t, 14.0, ComputeDiscount(v, 120))

	_, err = e.Resolve("SUMMER25", 500)
	assert.ErrorIs(t, err, ErrVoucherExpired)

	_, err = e.Resolve("WELCOME20", 500)
	assert.ErrorIs(t, err, ErrVoucherUsed)

	_, err = e.Resolve("MISSING", 500)
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestEvaluator_SweetExpiresAfterYearEnd(t *testing.T) {
	e := NewEvaluator(DefaultCatalog(), fixedNow(time.Date(2027, time.January, 1, 0, 0, 1, 0, time.UTC)))

	_, err := e.Resolve("SWEET50", 200)
	assert.ErrorIs(t, err, ErrVoucherExpired)
}

func TestNewEvaluator_NilCatalogPanics(t *testing.T) {
	assert.Panics(t, func() { NewEvaluator(nil, nil) })
}

func TestUserMessage(t *testing.T) {
	minOrder := 100.0
	v := models.Voucher{Code: "WELCOME", MinOrderAmount: &minOrder}

	assert.Equal(t, "This voucher code is not valid.", UserMessage(ErrVoucherNotFound, v))
	assert.Equal(t, "This voucher has already been used.", UserMessage(ErrVoucherUsed, v))
	assert.Equal(t, "This voucher has expired.", UserMessage(ErrVoucherExpired, v))
	assert.Equal(t, "Minimum order for this voucher is AED 100.00", UserMessage(ErrBelowMinimum, v))
}
