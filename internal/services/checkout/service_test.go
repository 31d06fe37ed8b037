package checkout

import (
	"errors"
	"testing"
	"time"

	"labanita/internal/models"
	"labanita/internal/services/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCart struct {
	mock.Mock
	accepted bool
}

func (m *MockCart) Lines() []models.CartLine {
	args := m.Called()
	return args.Get(0).([]models.CartLine)
}

func (m *MockCart) Totals() cart.Totals {
	args := m.Called()
	return args.Get(0).(cart.Totals)
}

// TakeForOrder runs accept on the stubbed lines and totals. The third
// return value is the error reported after a successful accept.
func (m *MockCart) TakeForOrder(accept func([]models.CartLine, cart.Totals) error) ([]models.CartLine, cart.Totals, error) {
	args := m.Called()
	lines := args.Get(0).([]models.CartLine)
	totals := args.Get(1).(cart.Totals)
	if err := accept(lines, totals); err != nil {
		m.accepted = false
		return nil, cart.Totals{}, err
	}
	m.accepted = args.Error(2) == nil
	return lines, totals, args.Error(2)
}

type MockAddresses struct {
	mock.Mock
}

func (m *MockAddresses) Default() (models.Address, bool) {
	args := m.Called()
	return args.Get(0).(models.Address), args.Bool(1)
}

type MockCards struct {
	mock.Mock
}

func (m *MockCards) Get(id string) (models.SavedCard, error) {
	args := m.Called(id)
	return args.Get(0).(models.SavedCard), args.Error(1)
}

func (m *MockCards) Default() (models.SavedCard, bool) {
	args := m.Called()
	return args.Get(0).(models.SavedCard), args.Bool(1)
}

var (
	placedAt  = time.Date(2025, time.June, 1, 18, 30, 0, 0, time.UTC)
	someLines = []models.CartLine{{ID: "1", Name: "Kunafa", UnitPrice: 25, Quantity: 4}}
	okTotals  = cart.Totals{
		ItemCount: 4, Subtotal: 100, DeliveryFee: 8, Discount: 50, Total: 58,
		MinOrderAmount: 50, CanPlaceOrder: true, VoucherCode: "SWEET50",
	}
	homeAddress = models.Address{ID: "a1", Title: "Home", Address: "Villa 12", IsDefault: true}
	visa        = models.SavedCard{ID: "c1", LastFour: "0366", CardType: models.CardTypeVisa, IsDefault: true}
)

func TestService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		setupMock func(*MockCart, *MockAddresses, *MockCards)
		wantErr   error
		errMsg    string
		check     func(t *testing.T, o models.OrderSummary)
	}{
		{
			name: "cash order clears cart and voucher",
			req:  Request{PaymentMethod: models.PaymentCash},
			setupMock: func(c *MockCart, a *MockAddresses, _ *MockCards) {
				c.On("TakeForOrder").Return(someLines, okTotals, nil)
				a.On("Default").Return(homeAddress, true)
			},
			check: func(t *testing.T, o models.OrderSummary) {
				assert.NotEmpty(t, o.OrderID)
				assert.Equal(t, 58.0, o.Total)
				assert.Equal(t, "SWEET50", o.VoucherCode)
				assert.Equal(t, "Villa 12", o.Address.Address)
				assert.Equal(t, placedAt, o.PlacedAt)
				assert.Empty(t, o.CardLastFour)
			},
		},
		{
			name: "card order uses default card",
			req:  Request{PaymentMethod: models.PaymentCard},
			setupMock: func(c *MockCart, a *MockAddresses, cards *MockCards) {
				c.On("TakeForOrder").Return(someLines, okTotals, nil)
				a.On("Default").Return(homeAddress, true)
				cards.On("Default").Return(visa, true)
			},
			check: func(t *testing.T, o models.OrderSummary) {
				assert.Equal(t, "0366", o.CardLastFour)
			},
		},
		{
			name: "card order with unknown card",
			req:  Request{PaymentMethod: models.PaymentCard, CardID: "nope"},
			setupMock: func(c *MockCart, a *MockAddresses, cards *MockCards) {
				c.On("TakeForOrder").Return(someLines, okTotals, nil)
				a.On("Default").Return(homeAddress, true)
				cards.On("Get", "nope").Return(models.SavedCard{}, errors.New("card not found"))
			},
			wantErr: ErrCardRequired,
			errMsg:  "Card not found",
		},
		{
			name: "card order without saved cards",
			req:  Request{PaymentMethod: models.PaymentCard},
			setupMock: func(c *MockCart, a *MockAddresses, cards *MockCards) {
				c.On("TakeForOrder").Return(someLines, okTotals, nil)
				a.On("Default").Return(homeAddress, true)
				cards.On("Default").Return(models.SavedCard{}, false)
			},
			wantErr: ErrCardRequired,
			errMsg:  "Please add a payment card",
		},
		{
			name: "empty cart",
			req:  Request{PaymentMethod: models.PaymentCash},
			setupMock: func(c *MockCart, _ *MockAddresses, _ *MockCards) {
				c.On("TakeForOrder").Return([]models.CartLine{}, cart.Totals{}, nil)
			},
			wantErr: ErrEmptyCart,
		},
		{
			name: "below minimum",
			req:  Request{PaymentMethod: models.PaymentCash},
			setupMock: func(c *MockCart, _ *MockAddresses, _ *MockCards) {
				c.On("TakeForOrder").Return(someLines, cart.Totals{Total: 30, MinOrderAmount: 50}, nil)
			},
			wantErr: ErrBelowMinimumOrder,
			errMsg:  "Minimum order amount is AED 50.00",
		},
		{
			name: "no address",
			req:  Request{PaymentMethod: models.PaymentApplePay},
			setupMock: func(c *MockCart, a *MockAddresses, _ *MockCards) {
				c.On("TakeForOrder").Return(someLines, okTotals, nil)
				a.On("Default").Return(models.Address{}, false)
			},
			wantErr: ErrNoAddress,
			errMsg:  "Please add a delivery address",
		},
		{
			name: "unknown payment method",
			req:  Request{PaymentMethod: "bitcoin"},
			setupMock: func(c *MockCart, a *MockAddresses, _ *MockCards) {
				c.On("TakeForOrder").Return(someLines, okTotals, nil)
				a.On("Default").Return(homeAddress, true)
			},
			wantErr: ErrInvalidPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(MockCart)
			a := new(MockAddresses)
			cards := new(MockCards)
			tt.setupMock(c, a, cards)

			s := NewService(c, a, cards, func() time.Time { return placedAt }, nil)
			order, err := s.PlaceOrder(tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.errMsg != "" {
					assert.Equal(t, tt.errMsg, err.Error())
				}
				assert.False(t, c.accepted, "cart must not be cleared")
			} else {
				require.NoError(t, err)
				assert.True(t, c.accepted)
				tt.check(t, order)
			}

			c.AssertExpectations(t)
			a.AssertExpectations(t)
			cards.AssertExpectations(t)
		})
	}
}

func TestService_Summary(t *testing.T) {
	c := new(MockCart)
	a := new(MockAddresses)
	cards := new(MockCards)
	c.On("Lines").Return(someLines)
	c.On("Totals").Return(okTotals)
	a.On("Default").Return(homeAddress, true)
	cards.On("Default").Return(models.SavedCard{}, false)

	sum := NewService(c, a, cards, nil, nil).Summary()
	assert.Equal(t, someLines, sum.Lines)
	assert.Equal(t, okTotals, sum.Totals)
	require.NotNil(t, sum.Address)
	assert.Nil(t, sum.DefaultCard)
}
