package cart

import (
	"labanita/internal/services/voucher"
	"labanita/internal/utils/money"

	"github.com/shopspring/decimal"
)

// Totals is a consistent view of the cart's derived amounts.
type Totals struct {
	ItemCount      int     `json:"item_count"`
	Subtotal       float64 `json:"subtotal"`
	DeliveryFee    float64 `json:"delivery_fee"`
	Discount       float64 `json:"discount"`
	Total          float64 `json:"total"`
	MinOrderAmount float64 `json:"min_order_amount"`
	CanPlaceOrder  bool    `json:"can_place_order"`
	VoucherCode    string  `json:"voucher_code,omitempty"`
}

// Subtotal is the sum of line totals rounded to 2 places.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

// Discount is what the applied voucher takes off the current subtotal.
func (s *Store) Discount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discountLocked(s.subtotalLocked())
}

// Total is subtotal + delivery fee - discount. It is not clamped at zero.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked().Total
}

// TotalItemCount sums the quantities of all lines.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCountLocked()
}

// CanPlaceOrder reports whether the total reaches the minimum order amount.
func (s *Store) CanPlaceOrder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked().CanPlaceOrder
}

// Totals computes every derived amount under one lock.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Store) subtotalLocked() float64 {
	sum := decimal.Zero
	for _, l := range s.lines {
		sum = sum.Add(money.LineTotal(l.UnitPrice, l.Quantity))
	}
	return sum.Round(2).InexactFloat64()
}

func (s *Store) discountLocked(subtotal float64) float64 {
	if s.applied == nil {
		return 0
	}
	return voucher.ComputeDiscount(*s.applied, subtotal)
}

func (s *Store) itemCountLocked() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) totalsLocked() Totals {
	subtotal := s.subtotalLocked()
	discount := s.discountLocked(subtotal)
	total := decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(s.cfg.DeliveryFee)).
		Sub(decimal.NewFromFloat(discount)).
		Round(2).
		InexactFloat64()

	t := Totals{
		ItemCount:      s.itemCountLocked(),
		Subtotal:       subtotal,
		DeliveryFee:    s.cfg.DeliveryFee,
		Discount:       discount,
		Total:          total,
		MinOrderAmount: s.cfg.MinOrderAmount,
		CanPlaceOrder:  total >= s.cfg.MinOrderAmount,
	}
	if s.applied != nil {
		t.VoucherCode = s.applied.Code
	}
	return t
}
