package models

import "time"

// DiscountType selects how a voucher's DiscountValue is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// VoucherStatus mirrors the tab a voucher is listed under.
type VoucherStatus string

const (
	VoucherAvailable VoucherStatus = "available"
	VoucherUsed      VoucherStatus = "used"
	VoucherExpired   VoucherStatus = "expired"
)

// Voucher is an immutable catalog entry. Code is always upper case.
type Voucher struct {
	Code           string        `json:"code"`
	DiscountType   DiscountType  `json:"discount_type"`
	DiscountValue  float64       `json:"discount_value"`
	MinOrderAmount *float64      `json:"min_order_amount,omitempty"`
	ExpiresAt      *time.Time    `json:"expires_at,omitempty"`
	Status         VoucherStatus `json:"status,omitempty"`
	Terms          []string      `json:"terms,omitempty"`
}
