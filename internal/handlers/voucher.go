package handlers

import (
	"labanita/internal/models"
	"labanita/internal/services/voucher"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Subtotaler is the part of the cart the voucher preview needs.
type Subtotaler interface {
	Subtotal() float64
}

type VoucherHandler struct {
	vouchers *voucher.Evaluator
	cart     Subtotaler
	logger   *zap.Logger
}

func NewVoucherHandler(vouchers *voucher.Evaluator, cart Subtotaler, logger *zap.Logger) *VoucherHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoucherHandler{vouchers: vouchers, cart: cart, logger: logger}
}

// ListVouchers returns the catalog, optionally filtered by ?status.
func (h *VoucherHandler) ListVouchers(c *fiber.Ctx) error {
	status := models.VoucherStatus(c.Query("status"))
	all := h.vouchers.List()

	out := make([]models.Voucher, 0, len(all))
	for _, v := range all {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return response.Success(c, "Vouchers retrieved successfully", out)
}

type voucherPreview struct {
	Voucher  models.Voucher `json:"voucher"`
	Eligible bool           `json:"eligible"`
	Discount float64        `json:"discount"`
	Reason   string         `json:"reason,omitempty"`
}

// GetVoucher looks a code up and reports whether it would apply to the
// current cart and for how much.
func (h *VoucherHandler) GetVoucher(c *fiber.Ctx) error {
	v, err := h.vouchers.Lookup(c.Params("code"))
	if err != nil {
		return fail(c, h.logger, err)
	}

	subtotal := h.cart.Subtotal()
	preview := voucherPreview{Voucher: v, Eligible: true}
	if err := h.vouchers.Validate(v, subtotal); err != nil {
		preview.Eligible = false
		preview.Reason = voucher.UserMessage(err, v)
	} else {
		preview.Discount = voucher.ComputeDiscount(v, subtotal)
	}
	return response.Success(c, "Voucher retrieved successfully", preview)
}
