package creditcard

import (
	"context"
	"errors"
	"testing"
	"time"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/services/state"
	"labanita/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReadyStore(t *testing.T, kv repositories.KeyValueStore) *Store {
	t.Helper()
	s := NewStore(kv, "@LabanetaSweets", func() time.Time { return formNow }, nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	s.Start(context.Background())
	require.NoError(t, s.WaitReady(context.Background()))
	return s
}

func TestStore_AddDetectsTypeAndDefaults(t *testing.T) {
	s := newReadyStore(t, repositories.NewMemoryStore())

	form := validForm()
	form.Type = models.CardTypeNone
	first, err := s.Add(form)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, models.CardTypeVisa, first.CardType)
	assert.Equal(t, "0366", first.LastFour)
	assert.True(t, first.IsDefault)

	second, err := s.Add(models.CardForm{
		HolderName: "Sara Ali",
		Number:     "5555 5555 5555 4444",
		Expiry:     "01/28",
		CVV:        "321",
	})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	def, ok := s.Default()
	require.True(t, ok)
	assert.Equal(t, first.ID, def.ID)
	assert.Len(t, s.List(), 2)
}

func TestStore_AddInvalidForm(t *testing.T) {
	s := newReadyStore(t, repositories.NewMemoryStore())

	form := validForm()
	form.Expiry = "12/20"
	_, err := s.Add(form)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, ErrInvalidCard)
	assert.Equal(t, "Card has expired", verr.Fields[validation.FieldExpiryDate])
	assert.Equal(t, "Card has expired", s.LastError().Error())
	assert.Empty(t, s.List())
}

func TestStore_PersistsOnlySafeFields(t *testing.T) {
	kv := repositories.NewMemoryStore()
	s := newReadyStore(t, kv)

	_, err := s.Add(validForm())
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))

	raw, err := kv.Get(context.Background(), "@LabanetaSweets:cards")
	require.NoError(t, err)
	assert.NotContains(t, raw, "4532015112830366")
	assert.NotContains(t, raw, "4532 0151")
	assert.NotContains(t, raw, `"123"`)
	assert.Contains(t, raw, `"last_four":"0366"`)

	reloaded := newReadyStore(t, kv)
	assert.Equal(t, s.List(), reloaded.List())
}

func TestStore_DeleteMovesDefault(t *testing.T) {
	kv := repositories.NewMemoryStore()
	s := newReadyStore(t, kv)

	a, err := s.Add(validForm())
	require.NoError(t, err)
	b, err := s.Add(validForm())
	require.NoError(t, err)

	require.NoError(t, s.Delete(a.ID))
	def, ok := s.Default()
	require.True(t, ok)
	assert.Equal(t, b.ID, def.ID)

	assert.ErrorIs(t, s.Delete(a.ID), ErrCardNotFound)
	assert.Equal(t, "Card not found", s.LastError().Error())

	require.NoError(t, s.Delete(b.ID))
	require.NoError(t, s.Flush(context.Background()))
	_, ok = s.Default()
	assert.False(t, ok)
	_, err = kv.Get(context.Background(), "@LabanetaSweets:cards")
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)
}

func TestStore_SetDefault(t *testing.T) {
	s := newReadyStore(t, repositories.NewMemoryStore())
	a, _ := s.Add(validForm())
	b, _ := s.Add(validForm())

	require.NoError(t, s.SetDefault(b.ID))
	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
	got, err = s.Get(b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)

	assert.ErrorIs(t, s.SetDefault("missing"), ErrCardNotFound)
}

func TestStore_Update(t *testing.T) {
	s := newReadyStore(t, repositories.NewMemoryStore())
	card, err := s.Add(validForm())
	require.NoError(t, err)

	updated, err := s.Update(card.ID, "John Q Doe", "03/29")
	require.NoError(t, err)
	assert.Equal(t, "John Q Doe", updated.HolderName)
	assert.Equal(t, "03/29", updated.Expiry)
	assert.Equal(t, "0366", updated.LastFour)

	_, err = s.Update(card.ID, "John", "14/29")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Invalid month", verr.Fields[validation.FieldExpiryDate])

	_, err = s.Update("missing", "John", "03/29")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

type gatedStore struct {
	*repositories.MemoryStore
	open chan struct{}
}

func (g *gatedStore) Get(ctx context.Context, key string) (string, error) {
	<-g.open
	return g.MemoryStore.Get(ctx, key)
}

func TestStore_RejectsWhileLoading(t *testing.T) {
	kv := &gatedStore{MemoryStore: repositories.NewMemoryStore(), open: make(chan struct{})}
	s := NewStore(kv, "", nil, nil)
	defer s.Close(context.Background())
	s.Start(context.Background())

	_, err := s.Add(validForm())
	assert.ErrorIs(t, err, state.ErrStoreLoading)

	close(kv.open)
	require.NoError(t, s.WaitReady(context.Background()))
	assert.Equal(t, state.StatusReady, s.Status())
}
