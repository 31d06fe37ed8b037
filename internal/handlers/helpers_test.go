package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"labanita/internal/repositories"
	"labanita/internal/services/address"
	"labanita/internal/services/cart"
	"labanita/internal/services/checkout"
	"labanita/internal/services/creditcard"
	"labanita/internal/services/user"
	"labanita/internal/services/voucher"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testEnv struct {
	kv        *repositories.MemoryStore
	cart      *cart.Store
	vouchers  *voucher.Evaluator
	cards     *creditcard.Store
	addresses *address.Store
	users     *user.Store
	checkout  *checkout.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	kv := repositories.NewMemoryStore()

	env := &testEnv{kv: kv}
	env.vouchers = voucher.NewEvaluator(voucher.DefaultCatalog(), fixedClock)
	env.cart = cart.NewStore(kv, env.vouchers, cart.DefaultConfig("@test"), nil)
	env.cards = creditcard.NewStore(kv, "@test", fixedClock, nil)
	env.addresses = address.NewStore(kv, "@test", nil)
	env.users = user.NewStore(kv, "@test", nil)
	env.checkout = checkout.NewService(env.cart, env.addresses, env.cards, fixedClock, nil)

	type store interface {
		Start(context.Context)
		WaitReady(context.Context) error
		Close(context.Context) error
	}
	for _, s := range []store{env.cart, env.cards, env.addresses, env.users} {
		s.Start(ctx)
		require.NoError(t, s.WaitReady(ctx))
		t.Cleanup(func() { _ = s.Close(context.Background()) })
	}
	return env
}

// envelope is the union of the success and error bodies.
type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields"`
}

func (e envelope) decode(t *testing.T, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, dest))
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}
