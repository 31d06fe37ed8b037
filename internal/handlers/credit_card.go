package handlers

import (
	"strings"
	"time"

	"labanita/internal/models"
	"labanita/internal/services/creditcard"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreditCardHandler struct {
	cards  *creditcard.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewCreditCardHandler(cards *creditcard.Store, now func() time.Time, logger *zap.Logger) *CreditCardHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditCardHandler{cards: cards, now: now, logger: logger}
}

type cardCheck struct {
	Valid           bool              `json:"valid"`
	CardType        models.CardType   `json:"card_type"`
	FormattedNumber string            `json:"formatted_number"`
	FormattedExpiry string            `json:"formatted_expiry"`
	CVVLength       int               `json:"cvv_length"`
	Errors          map[string]string `json:"errors,omitempty"`
}

// ValidateCard runs the add-card form checks without saving anything. The
// result is always 200; Valid tells whether the form would be accepted.
func (h *CreditCardHandler) ValidateCard(c *fiber.Ctx) error {
	var form models.CardForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if form.Type == models.CardTypeNone {
		form.Type = creditcard.DetectCardType(form.Number)
	}

	fields := creditcard.ValidateCardForm(form, h.now())
	check := cardCheck{
		Valid:           fields.Valid(),
		CardType:        form.Type,
		FormattedNumber: creditcard.FormatCardNumber(form.Number),
		FormattedExpiry: creditcard.FormatExpiry(form.Expiry),
		CVVLength:       creditcard.CVVLength(form.Type),
	}
	if !check.Valid {
		check.Errors = fields.Failed()
	}
	return response.Success(c, "Card checked", check)
}

func (h *CreditCardHandler) ListCards(c *fiber.Ctx) error {
	return response.Success(c, "Cards retrieved successfully", h.cards.List())
}

func (h *CreditCardHandler) LinkCard(c *fiber.Ctx) error {
	var form models.CardForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	card, err := h.cards.Add(form)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Created(c, "Card added successfully", card)
}

type updateCardRequest struct {
	HolderName string `json:"card_holder"`
	Expiry     string `json:"expiry_date"`
}

func (h *CreditCardHandler) UpdateCard(c *fiber.Ctx) error {
	var req updateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	card, err := h.cards.Update(c.Params("id"), strings.TrimSpace(req.HolderName), req.Expiry)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Card updated successfully", card)
}

func (h *CreditCardHandler) DeleteCard(c *fiber.Ctx) error {
	if err := h.cards.Delete(c.Params("id")); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Card deleted successfully", nil)
}

func (h *CreditCardHandler) SetDefaultCard(c *fiber.Ctx) error {
	if err := h.cards.SetDefault(c.Params("id")); err != nil {
		return fail(c, h.logger, err)
	}
	return response.Success(c, "Default card updated", h.cards.List())
}
