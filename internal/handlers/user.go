package handlers

import (
	"labanita/internal/models"
	"labanita/internal/services/user"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  *user.Store
	logger *zap.Logger
}

func NewUserHandler(users *user.Store, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	u, ok := h.users.Get()
	if !ok {
		return fail(c, h.logger, user.ErrNotSignedIn)
	}
	return response.Success(c, "Profile retrieved successfully", u)
}

// UpdateProfile applies a partial update; omitted fields keep their value.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in models.UserUpdate
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	u, err := h.users.Update(in)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Profile updated successfully", u)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.users.Logout(); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Logged out successfully", nil)
}
