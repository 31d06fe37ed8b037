package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	rediscache "labanita/internal/repositories/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	Status    string                       `json:"status"`
	Stores    map[string]map[string]string `json:"stores"`
	Services  map[string]string            `json:"services"`
	PoolStats map[string]uint32            `json:"pool_stats"`
}

func getHealth(t *testing.T, h *HealthHandler) (int, healthBody) {
	t.Helper()
	app := fiber.New()
	app.Get("/health", h.HealthCheck)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body healthBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthHandler_ReadyWithRedis(t *testing.T) {
	env := newTestEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	h := NewHealthHandler([]NamedStore{
		{Name: "cart", Store: env.cart},
		{Name: "cards", Store: env.cards},
	}, rediscache.NewRedisStore(client, 0), rediscache.NewCacheService(client, time.Minute), "test")

	status, body := getHealth(t, h)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ready", body.Stores["cart"]["status"])
	assert.Equal(t, "connected", body.Services["storage"])
	require.Contains(t, body.PoolStats, "total_conns")
	assert.GreaterOrEqual(t, body.PoolStats["total_conns"], uint32(1))

	mr.Close()
	status, body = getHealth(t, h)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "disconnected", body.Services["storage"])
}

func TestHealthHandler_MemoryStorage(t *testing.T) {
	env := newTestEnv(t)
	h := NewHealthHandler([]NamedStore{{Name: "user", Store: env.users}}, nil, nil, "test")

	status, body := getHealth(t, h)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "memory", body.Services["storage"])
	assert.Nil(t, body.PoolStats)
}
