package models

import "time"

// Payment methods offered at checkout.
const (
	PaymentApplePay = "apple_pay"
	PaymentCard     = "card"
	PaymentCash     = "cash"
)

// OrderSummary is what checkout hands back once the cart has been cleared.
type OrderSummary struct {
	OrderID       string     `json:"order_id"`
	Lines         []CartLine `json:"lines"`
	ItemCount     int        `json:"item_count"`
	Subtotal      float64    `json:"subtotal"`
	DeliveryFee   float64    `json:"delivery_fee"`
	Discount      float64    `json:"discount"`
	Total         float64    `json:"total"`
	VoucherCode   string     `json:"voucher_code,omitempty"`
	Address       *Address   `json:"address,omitempty"`
	PaymentMethod string     `json:"payment_method"`
	CardLastFour  string     `json:"card_last_four,omitempty"`
	PlacedAt      time.Time  `json:"placed_at"`
}
