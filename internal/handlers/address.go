package handlers

import (
	"labanita/internal/services/address"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AddressHandler struct {
	addresses *address.Store
	logger    *zap.Logger
}

func NewAddressHandler(addresses *address.Store, logger *zap.Logger) *AddressHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressHandler{addresses: addresses, logger: logger}
}

func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	return response.Success(c, "Addresses retrieved successfully", h.addresses.List())
}

func (h *AddressHandler) GetDefaultAddress(c *fiber.Ctx) error {
	addr, ok := h.addresses.Default()
	if !ok {
		return fail(c, h.logger, address.ErrAddressNotFound)
	}
	return response.Success(c, "Default address retrieved", addr)
}

func (h *AddressHandler) AddAddress(c *fiber.Ctx) error {
	var in address.Input
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	addr, err := h.addresses.Add(in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Created(c, "Address added successfully", addr)
}

func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	var in address.Input
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	addr, err := h.addresses.Update(c.Params("id"), in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Address updated successfully", addr)
}

func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	if err := h.addresses.Delete(c.Params("id")); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Address deleted successfully", h.addresses.List())
}

func (h *AddressHandler) SetDefaultAddress(c *fiber.Ctx) error {
	if err := h.addresses.SetDefault(c.Params("id")); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Default address updated", h.addresses.List())
}
