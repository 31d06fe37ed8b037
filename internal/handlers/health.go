package handlers

import (
	"context"
	"time"

	"labanita/internal/services/state"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// StoreStatus is what the health check reads from each device store.
type StoreStatus interface {
	Status() state.Status
	LastError() error
}

// NamedStore labels a store in the health report.
type NamedStore struct {
	Name  string
	Store StoreStatus
}

// Pinger is a backing service the health check pings.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// PoolReporter exposes redis connection pool counters.
type PoolReporter interface {
	GetStats() *redis.PoolStats
}

type HealthHandler struct {
	stores  []NamedStore
	storage Pinger
	pool    PoolReporter
	version string
}

// NewHealthHandler reports on stores and, when storage is non-nil, on the
// key-value backend behind them. pool may be nil.
func NewHealthHandler(stores []NamedStore, storage Pinger, pool PoolReporter, version string) *HealthHandler {
	return &HealthHandler{stores: stores, storage: storage, pool: pool, version: version}
}

// HealthCheck answers 200 when every store is ready and storage responds,
// 503 otherwise.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	healthy := true

	stores := fiber.Map{}
	for _, s := range h.stores {
		entry := fiber.Map{"status": s.Store.Status().String()}
		if err := s.Store.LastError(); err != nil {
			entry["last_error"] = err.Error()
		}
		if s.Store.Status() != state.StatusReady {
			healthy = false
		}
		stores[s.Name] = entry
	}

	services := fiber.Map{"storage": "memory"}
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.storage.HealthCheck(ctx); err != nil {
			services["storage"] = "disconnected"
			healthy = false
		} else {
			services["storage"] = "connected"
		}
	}

	status, code := "ok", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	body := fiber.Map{
		"status":   status,
		"version":  h.version,
		"stores":   stores,
		"services": services,
	}
	if h.pool != nil {
		if ps := h.pool.GetStats(); ps != nil {
			body["pool_stats"] = fiber.Map{
				"hits":        ps.Hits,
				"misses":      ps.Misses,
				"timeouts":    ps.Timeouts,
				"total_conns": ps.TotalConns,
				"idle_conns":  ps.IdleConns,
				"stale_conns": ps.StaleConns,
			}
		}
	}
	return c.Status(code).JSON(body)
}
