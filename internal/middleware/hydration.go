// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"sync/atomic"

	apperrors "labanita/internal/errors"
	"labanita/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// Hydrating is a store that finishes loading in the background.
type Hydrating interface {
	Ready() <-chan struct{}
}

// HydrationGate answers 503 until every store has finished hydrating.
// Once all stores are ready it no longer checks them.
func HydrationGate(stores ...Hydrating) fiber.Handler {
	var ready atomic.Bool
	return func(c *fiber.Ctx) error {
		if !ready.Load() {
			for _, s := range stores {
				select {
				case <-s.Ready():
				default:
					c.Set(fiber.HeaderRetryAfter, "1")
					return response.Fail(c, apperrors.ErrStoreLoading)
				}
			}
			ready.Store(true)
		}
		return c.Next()
	}
}
