// Package checkout turns the current cart into an order summary. It reads
// only the cart's exposed totals and the minimum-order check, and clears
// the cart (voucher included) once the order is accepted.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"labanita/internal/models"
	"labanita/internal/services/cart"
	"labanita/internal/utils/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoAddress            = errors.New("no delivery address")
	ErrBelowMinimumOrder    = errors.New("order total is below the minimum")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrCardRequired         = errors.New("a saved card is required")
)

// Error pairs a checkout failure with the message shown to the customer.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Cart is the part of the cart store checkout depends on.
type Cart interface {
	Lines() []models.CartLine
	Totals() cart.Totals
	TakeForOrder(accept func([]models.CartLine, cart.Totals) error) ([]models.CartLine, cart.Totals, error)
}

var _ Cart = (*cart.Store)(nil)

type Addresses interface {
	Default() (models.Address, bool)
}

type Cards interface {
	Get(id string) (models.SavedCard, error)
	Default() (models.SavedCard, bool)
}

// Request selects how the order is paid. CardID falls back to the default
// card when empty.
type Request struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=apple_pay card cash"`
	CardID        string `json:"card_id,omitempty"`
}

// Summary is the checkout screen before the order is placed.
type Summary struct {
	Lines       []models.CartLine `json:"lines"`
	Totals      cart.Totals       `json:"totals"`
	Address     *models.Address   `json:"address,omitempty"`
	DefaultCard *models.SavedCard `json:"default_card,omitempty"`
}

type Service struct {
	cart      Cart
	addresses Addresses
	cards     Cards
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(c Cart, addresses Addresses, cards Cards, now func() time.Time, logger *zap.Logger) *Service {
	if c == nil || addresses == nil || cards == nil {
		panic("checkout requires cart, address and card stores")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cart: c, addresses: addresses, cards: cards, now: now, logger: logger}
}

func (s *Service) Summary() Summary {
	sum := Summary{Lines: s.cart.Lines(), Totals: s.cart.Totals()}
	if a, ok := s.addresses.Default(); ok {
		sum.Address = &a
	}
	if c, ok := s.cards.Default(); ok {
		sum.DefaultCard = &c
	}
	return sum
}

// PlaceOrder checks the order can go through, clears the cart and its
// voucher, and returns what was ordered. The checks and the clear happen
// under the cart lock, so the order holds exactly what was cleared.
func (s *Service) PlaceOrder(req Request) (models.OrderSummary, error) {
	var order models.OrderSummary
	_, _, err := s.cart.TakeForOrder(func(lines []models.CartLine, totals cart.Totals) error {
		o, err := s.prepare(req, lines, totals)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return models.OrderSummary{}, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.OrderID),
		zap.String("payment_method", order.PaymentMethod),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func (s *Service) prepare(req Request, lines []models.CartLine, totals cart.Totals) (models.OrderSummary, error) {
	if len(lines) == 0 {
		return models.OrderSummary{}, &Error{Message: "Your cart is empty", Err: ErrEmptyCart}
	}
	if !totals.CanPlaceOrder {
		msg := fmt.Sprintf("Minimum order amount is AED %s", money.Format(totals.MinOrderAmount))
		return models.OrderSummary{}, &Error{Message: msg, Err: ErrBelowMinimumOrder}
	}

	addr, ok := s.addresses.Default()
	if !ok {
		return models.OrderSummary{}, &Error{Message: "Please add a delivery address", Err: ErrNoAddress}
	}

	order := models.OrderSummary{
		OrderID:       uuid.NewString(),
		Lines:         lines,
		ItemCount:     totals.ItemCount,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Discount:      totals.Discount,
		Total:         totals.Total,
		VoucherCode:   totals.VoucherCode,
		Address:       &addr,
		PaymentMethod: req.PaymentMethod,
		PlacedAt:      s.now(),
	}

	switch req.PaymentMethod {
	case models.PaymentApplePay, models.PaymentCash:
	case models.PaymentCard:
		card, err := s.card(req.CardID)
		if err != nil {
			return models.OrderSummary{}, err
		}
		order.CardLastFour = card.LastFour
	default:
		return models.OrderSummary{}, &Error{Message: "Please select a payment method", Err: ErrInvalidPaymentMethod}
	}
	return order, nil
}

func (s *Service) card(id string) (models.SavedCard, error) {
	if id != "" {
		c, err := s.cards.Get(id)
		if err != nil {
			return models.SavedCard{}, &Error{Message: "Card not found", Err: fmt.Errorf("%w: %w", ErrCardRequired, err)}
		}
		return c, nil
	}
	if c, ok := s.cards.Default(); ok {
		return c, nil
	}
	return models.SavedCard{}, &Error{Message: "Please add a payment card", Err: ErrCardRequired}
}
