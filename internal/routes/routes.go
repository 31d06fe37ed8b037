// Package routes wires the HTTP handlers to their paths.
package routes

import (
	"time"

	"labanita/internal/handlers"
	"labanita/internal/middleware"
	"labanita/internal/services/address"
	"labanita/internal/services/cart"
	"labanita/internal/services/catalog"
	"labanita/internal/services/checkout"
	"labanita/internal/services/creditcard"
	"labanita/internal/services/user"
	"labanita/internal/services/voucher"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Version is reported by the health check.
const Version = "1.0.0"

// Deps are the services the routes serve. Catalog, Storage and Pool may be
// nil.
type Deps struct {
	Cart      *cart.Store
	Vouchers  *voucher.Evaluator
	Cards     *creditcard.Store
	Addresses *address.Store
	Users     *user.Store
	Checkout  *checkout.Service
	Catalog   *catalog.Service
	Storage   handlers.Pinger
	Pool      handlers.PoolReporter
	Now       func() time.Time
	Logger    *zap.Logger
}

// SetupRoutes registers every route under /api. The device stores sit
// behind the hydration gate; health and the catalog do not.
func SetupRoutes(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	health := handlers.NewHealthHandler([]handlers.NamedStore{
		{Name: "cart", Store: d.Cart},
		{Name: "cards", Store: d.Cards},
		{Name: "addresses", Store: d.Addresses},
		{Name: "user", Store: d.Users},
	}, d.Storage, d.Pool, Version)

	cartHandler := handlers.NewCartHandler(d.Cart, logger.Named("cart"))
	voucherHandler := handlers.NewVoucherHandler(d.Vouchers, d.Cart, logger.Named("voucher"))
	cardHandler := handlers.NewCreditCardHandler(d.Cards, d.Now, logger.Named("cards"))
	addressHandler := handlers.NewAddressHandler(d.Addresses, logger.Named("address"))
	userHandler := handlers.NewUserHandler(d.Users, logger.Named("user"))
	checkoutHandler := handlers.NewCheckoutHandler(d.Checkout, logger.Named("checkout"))
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, logger.Named("catalog"))

	api := app.Group("/api")
	api.Get("/health", health.HealthCheck)

	// Product catalog
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Get("/categories", catalogHandler.ListCategories)

	// Vouchers and card checks read no device state
	api.Get("/vouchers", voucherHandler.ListVouchers)
	api.Post("/cards/validate", cardHandler.ValidateCard)

	device := api.Group("", middleware.HydrationGate(d.Cart, d.Cards, d.Addresses, d.Users))

	// Cart
	device.Get("/cart", cartHandler.GetCart)
	device.Delete("/cart", cartHandler.ClearCart)
	device.Post("/cart/items", cartHandler.AddItem)
	device.Put("/cart/items/:id", cartHandler.UpdateQuantity)
	device.Delete("/cart/items/:id", cartHandler.RemoveItem)
	device.Post("/cart/voucher", cartHandler.ApplyVoucher)
	device.Delete("/cart/voucher", cartHandler.RemoveVoucher)
	device.Get("/vouchers/:code", voucherHandler.GetVoucher)

	// Saved cards
	device.Get("/cards", cardHandler.ListCards)
	device.Post("/cards", cardHandler.LinkCard)
	device.Put("/cards/:id", cardHandler.UpdateCard)
	device.Delete("/cards/:id", cardHandler.DeleteCard)
	device.Put("/cards/:id/default", cardHandler.SetDefaultCard)

	// Addresses
	device.Get("/addresses", addressHandler.ListAddresses)
	device.Get("/addresses/default", addressHandler.GetDefaultAddress)
	device.Post("/addresses", addressHandler.AddAddress)
	device.Put("/addresses/:id", addressHandler.UpdateAddress)
	device.Delete("/addresses/:id", addressHandler.DeleteAddress)
	device.Put("/addresses/:id/default", addressHandler.SetDefaultAddress)

	// Profile
	device.Get("/user", userHandler.GetProfile)
	device.Put("/user", userHandler.UpdateProfile)
	device.Post("/user/logout", userHandler.Logout)

	// Checkout
	device.Get("/checkout", checkoutHandler.GetSummary)
	device.Post("/checkout", checkoutHandler.PlaceOrder)
}
