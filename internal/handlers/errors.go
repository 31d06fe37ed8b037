package handlers

import (
	"errors"

	apperrors "labanita/internal/errors"
	"labanita/internal/repositories"
	"labanita/internal/services/address"
	"labanita/internal/services/cart"
	"labanita/internal/services/checkout"
	"labanita/internal/services/creditcard"
	"labanita/internal/services/state"
	"labanita/internal/services/user"
	"labanita/internal/services/voucher"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errorTable is checked in order; the first matching sentinel wins.
var errorTable = []struct {
	target error
	domain *apperrors.DomainError
}{
	{state.ErrStoreLoading, apperrors.ErrStoreLoading},

	{checkout.ErrEmptyCart, apperrors.ErrCheckoutRejected},
	{checkout.ErrBelowMinimumOrder, apperrors.ErrCheckoutRejected},
	{checkout.ErrNoAddress, apperrors.ErrCheckoutRejected},
	{checkout.ErrCardRequired, apperrors.ErrCheckoutRejected},
	{checkout.ErrInvalidPaymentMethod, apperrors.ErrInvalidPaymentMethod},

	{cart.ErrQuantityTooHigh, apperrors.ErrInvalidQuantity},
	{cart.ErrQuantityTooLow, apperrors.ErrInvalidQuantity},
	{cart.ErrInvalidLine, apperrors.ErrInvalidItem},
	{cart.ErrLineNotFound, apperrors.ErrItemNotFound},

	{voucher.ErrVoucherNotFound, apperrors.ErrVoucherNotFound},
	{voucher.ErrVoucherExpired, apperrors.ErrVoucherRejected},
	{voucher.ErrVoucherUsed, apperrors.ErrVoucherRejected},
	{voucher.ErrBelowMinimum, apperrors.ErrVoucherRejected},

	{creditcard.ErrCardNotFound, apperrors.ErrCardNotFound},
	{address.ErrMissingFields, apperrors.ErrInvalidAddress},
	{address.ErrAddressNotFound, apperrors.ErrAddressNotFound},
	{user.ErrNotSignedIn, apperrors.ErrNotSignedIn},
	{repositories.ErrProductNotFound, apperrors.ErrProductNotFound},
}

// toDomainError translates a service error into what the client sees.
// Anything unrecognised becomes ErrInternal with a generic message.
func toDomainError(err error) *apperrors.DomainError {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return de
	}

	var cardErr *creditcard.ValidationError
	if errors.As(err, &cardErr) {
		return apperrors.ErrInvalidCard.
			WithMessage(cardErr.Error()).
			WithFields(cardErr.Fields.Failed()).
			Wrap(err)
	}
	var profileErr *user.ValidationError
	if errors.As(err, &profileErr) {
		return apperrors.ErrInvalidProfile.
			WithMessage(profileErr.Error()).
			WithFields(profileErr.Fields).
			Wrap(err)
	}

	for _, e := range errorTable {
		if !errors.Is(err, e.target) {
			continue
		}
		out := e.domain.Wrap(err)
		if msg := displayMessage(err); msg != "" {
			out.Message = msg
		}
		return out
	}
	return apperrors.ErrInternal.Wrap(err)
}

// displayMessage returns the customer-facing text a service attached to err.
func displayMessage(err error) string {
	var se *state.Error
	if errors.As(err, &se) {
		return se.Message
	}
	var ce *checkout.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return ""
}

// fail writes err with its mapped status. Server-side failures are logged.
func fail(c *fiber.Ctx, logger *zap.Logger, err error) error {
	de := toDomainError(err)
	if de.Status >= fiber.StatusInternalServerError && de.Status != fiber.StatusServiceUnavailable {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return response.Fail(c, de)
}
