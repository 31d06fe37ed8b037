package models

// CartLine is one product entry in the cart. A cart holds at most one line
// per product ID and a line's quantity is never below 1.
type CartLine struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
}

// LineTotal returns UnitPrice * Quantity, unrounded.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartState is the persisted shape of a cart.
type CartState struct {
	Lines          []CartLine `json:"lines"`
	AppliedVoucher *Voucher   `json:"applied_voucher,omitempty"`
}
