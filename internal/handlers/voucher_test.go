package handlers

import (
	"testing"

	"labanita/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupVoucherApp(env *testEnv) *fiber.App {
	h := NewVoucherHandler(env.vouchers, env.cart, nil)
	app := fiber.New()
	app.Get("/vouchers", h.ListVouchers)
	app.Get("/vouchers/:code", h.GetVoucher)
	return app
}

func TestVoucherHandler_List(t *testing.T) {
	app := setupVoucherApp(newTestEnv(t))

	status, body := doJSON(t, app, "GET", "/vouchers", nil)
	require.Equal(t, fiber.StatusOK, status)
	var all []models.Voucher
	body.decode(t, &all)
	assert.Len(t, all, 4)

	status, body = doJSON(t, app, "GET", "/vouchers?status=used", nil)
	require.Equal(t, fiber.StatusOK, status)
	var used []models.Voucher
	body.decode(t, &used)
	require.Len(t, used, 1)
	assert.Equal(t, "WELCOME20", used[0].Code)
}

func TestVoucherHandler_Preview(t *testing.T) {
	env := newTestEnv(t)
	app := setupVoucherApp(env)

	status, body := doJSON(t, app, "GET", "/vouchers/sweet50", nil)
	require.Equal(t, fiber.StatusOK, status)
	var preview voucherPreview
	body.decode(t, &preview)
	assert.False(t, preview.Eligible)
	assert.Equal(t, "Minimum order for this voucher is AED 100.00", preview.Reason)

	require.NoError(t, env.cart.AddItem(models.CartLine{ID: "1", Name: "Oreo Cheesecake", UnitPrice: 20, Quantity: 6}))
	status, body = doJSON(t, app, "GET", "/vouchers/sweet50", nil)
	require.Equal(t, fiber.StatusOK, status)
	preview = voucherPreview{}
	body.decode(t, &preview)
	assert.True(t, preview.Eligible)
	assert.Equal(t, 60.0, preview.Discount)

	status, body = doJSON(t, app, "GET", "/vouchers/summer25", nil)
	require.Equal(t, fiber.StatusOK, status)
	preview = voucherPreview{}
	body.decode(t, &preview)
	assert.Equal(t, "This voucher has expired.", preview.Reason)

	status, _ = doJSON(t, app, "GET", "/vouchers/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
