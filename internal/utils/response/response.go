// Package response writes the JSON envelopes every handler returns.
package response

import (
	apperrors "labanita/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// Fail writes a DomainError as {"error", "code", "fields"}.
func Fail(c *fiber.Ctx, err *apperrors.DomainError) error {
	body := fiber.Map{
		"error": err.Message,
		"code":  err.Code,
	}
	if len(err.Fields) > 0 {
		body["fields"] = err.Fields
	}
	return c.Status(err.Status).JSON(body)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// ValidationError writes per-field messages with status 422.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return Fail(c, apperrors.ErrValidation.WithFields(fields))
}
