package voucher

import (
	"sort"
	"strings"
	"time"

	"labanita/internal/models"
)

// Catalog resolves voucher codes. Implementations must treat codes
// case-insensitively.
type Catalog interface {
	Lookup(code string) (models.Voucher, error)
	List() []models.Voucher
}

// StaticCatalog is an immutable in-memory Catalog.
type StaticCatalog struct {
	byCode map[string]models.Voucher
}

// NewStaticCatalog indexes vouchers by upper-cased code. A later entry with
// the same code replaces an earlier one.
func NewStaticCatalog(vouchers ...models.Voucher) *StaticCatalog {
	c := &StaticCatalog{byCode: make(map[string]models.Voucher, len(vouchers))}
	for _, v := range vouchers {
		v.Code = Canonical(v.Code)
		if v.Status == "" {
			v.Status = models.VoucherAvailable
		}
		c.byCode[v.Code] = v
	}
	return c
}

func (c *StaticCatalog) Lookup(code string) (models.Voucher, error) {
	v, ok := c.byCode[Canonical(code)]
	if !ok {
		return models.Voucher{}, ErrVoucherNotFound
	}
	return v, nil
}

// List returns every voucher ordered by code.
func (c *StaticCatalog) List() []models.Voucher {
	out := make([]models.Voucher, 0, len(c.byCode))
	for _, v := range c.byCode {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Canonical upper-cases and trims a voucher code.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// endOfDay returns the last instant of the given UTC date.
func endOfDay(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
	return &t
}

func amount(v float64) *float64 { return &v }

// DefaultCatalog returns the vouchers shipped with the app.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(
		models.Voucher{
			Code:           "SWEET50",
			DiscountType:   models.DiscountPercentage,
			DiscountValue:  50,
			MinOrderAmount: amount(100),
			ExpiresAt:      endOfDay(2026, time.December, 31),
			Status:         models.VoucherAvailable,
			Terms: []string{
				"Valid on orders above AED 100",
				"Cannot be combined with other offers",
				"Valid until December 31, 2026",
			},
		},
		models.Voucher{
			Code:           "WELCOME",
			DiscountType:   models.DiscountFixed,
			DiscountValue:  14,
			MinOrderAmount: amount(100),
			Status:         models.VoucherAvailable,
			Terms: []string{
				"AED 14 off your order",
				"Valid on orders above AED 100",
			},
		},
		models.Voucher{
			Code:          "WELCOME20",
			DiscountType:  models.DiscountFixed,
			DiscountValue: 20,
			ExpiresAt:     endOfDay(2026, time.June, 30),
			Status:        models.VoucherUsed,
			Terms: []string{
				"One-time use only",
				"Valid for new customers",
				"Valid until June 30, 2026",
			},
		},
		models.Voucher{
			Code:          "SUMMER25",
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 25,
			ExpiresAt:     endOfDay(2023, time.December, 31),
			Status:        models.VoucherExpired,
			Terms: []string{
				"Summer special offer",
				"Valid on all products",
				"Expired on December 31, 2023",
			},
		},
	)
}
