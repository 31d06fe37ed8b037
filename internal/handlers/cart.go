package handlers

import (
	"labanita/internal/models"
	"labanita/internal/services/cart"
	"labanita/internal/utils/response"
	"labanita/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart   *cart.Store
	logger *zap.Logger
}

func NewCartHandler(c *cart.Store, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{cart: c, logger: logger}
}

type cartView struct {
	Lines          []models.CartLine `json:"lines"`
	AppliedVoucher *models.Voucher   `json:"applied_voucher,omitempty"`
	Totals         cart.Totals       `json:"totals"`
}

type addItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gt=0"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type voucherRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *CartHandler) view() cartView {
	snap := h.cart.Snapshot()
	if snap.Lines == nil {
		snap.Lines = []models.CartLine{}
	}
	return cartView{
		Lines:          snap.Lines,
		AppliedVoucher: snap.AppliedVoucher,
		Totals:         h.cart.Totals(),
	}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	return response.Success(c, "Cart retrieved successfully", h.view())
}

// AddItem adds a product to the cart. A missing quantity means one.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, fields)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err := h.cart.AddItem(models.CartLine{
		ID:        req.ID,
		Name:      req.Name,
		UnitPrice: req.Price,
		Quantity:  req.Quantity,
		Category:  req.Category,
	})
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Item added to cart", h.view())
}

func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req setQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := h.cart.SetQuantity(c.Params("id"), req.Quantity); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Quantity updated", h.view())
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.cart.RemoveItem(c.Params("id")); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Item removed from cart", h.view())
}

// ClearCart empties the cart; ?drop_voucher=true also removes the voucher.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.cart.Clear(c.QueryBool("drop_voucher")); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Cart cleared", h.view())
}

func (h *CartHandler) ApplyVoucher(c *fiber.Ctx) error {
	var req voucherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, fields)
	}

	if _, err := h.cart.ApplyVoucherCode(req.Code); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Voucher applied", h.view())
}

func (h *CartHandler) RemoveVoucher(c *fiber.Ctx) error {
	if err := h.cart.RemoveVoucher(); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Voucher removed", h.view())
}
