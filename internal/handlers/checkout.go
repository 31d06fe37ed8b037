package handlers

import (
	"labanita/internal/services/checkout"
	"labanita/internal/utils/response"
	"labanita/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	logger   *zap.Logger
}

func NewCheckoutHandler(svc *checkout.Service, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{checkout: svc, logger: logger}
}

func (h *CheckoutHandler) GetSummary(c *fiber.Ctx) error {
	return response.Success(c, "Checkout summary", h.checkout.Summary())
}

func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	var req checkout.Request
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, fields)
	}

	order, err := h.checkout.PlaceOrder(req)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Created(c, "Order placed successfully", order)
}
