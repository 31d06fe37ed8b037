package user

import (
	"context"
	"errors"
	"testing"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/services/state"
	"labanita/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newReadyStore(t *testing.T, kv repositories.KeyValueStore) *Store {
	t.Helper()
	s := NewStore(kv, "@LabanetaSweets", nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	s.Start(context.Background())
	require.NoError(t, s.WaitReady(context.Background()))
	return s
}

func TestUpdate_CreatesAndMerges(t *testing.T) {
	kv := repositories.NewMemoryStore()
	s := newReadyStore(t, kv)

	_, ok := s.Get()
	assert.False(t, ok)

	u, err := s.Update(models.UserUpdate{Name: ptr(" Hana "), Phone: ptr("+971501234567"), Points: ptr(120)})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Hana", u.Name)

	u2, err := s.Update(models.UserUpdate{Email: ptr("hana@example.com")})
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.Equal(t, "+971501234567", u2.Phone)
	assert.Equal(t, "hana@example.com", u2.Email)
	assert.Equal(t, 120, u2.Points)

	require.NoError(t, s.Flush(context.Background()))
	reloaded := newReadyStore(t, kv)
	got, ok := reloaded.Get()
	require.True(t, ok)
	assert.Equal(t, u2, got)
}

func TestUpdate_Validation(t *testing.T) {
	s := newReadyStore(t, repositories.NewMemoryStore())

	tests := []struct {
		name  string
		in    models.UserUpdate
		field string
		want  string
	}{
		{"blank name", models.UserUpdate{Name: ptr("  ")}, validation.FieldName, "Name is required"},
		{"short phone", models.UserUpdate{Phone: ptr("12345")}, validation.FieldPhone, "Invalid phone number"},
		{"empty phone", models.UserUpdate{Phone: ptr("")}, validation.FieldPhone, "Invalid phone number"},
		{"bad email", models.UserUpdate{Email: ptr("hana@example")}, validation.FieldEmail, "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Update(tt.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.ErrorIs(t, err, ErrInvalidProfile)
			assert.Equal(t, tt.want, verr.Fields[tt.field])
		})
	}

	_, ok := s.Get()
	assert.False(t, ok, "rejected updates leave no profile behind")

	_, err := s.Update(models.UserUpdate{Email: ptr("")})
	assert.NoError(t, err, "email is optional")
}

func TestLogout(t *testing.T) {
	kv := repositories.NewMemoryStore()
	s := newReadyStore(t, kv)
	ctx := context.Background()

	_, err := s.Update(models.UserUpdate{Name: ptr("Omar"), Phone: ptr("0501234567")})
	require.NoError(t, err)
	require.NoError(t, s.Logout())
	require.NoError(t, s.Flush(ctx))

	_, ok := s.Get()
	assert.False(t, ok)
	_, err = kv.Get(ctx, "@LabanetaSweets:user")
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)
}

func TestHydration_CorruptProfile(t *testing.T) {
	kv := repositories.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), "@LabanetaSweets:user", "[1,2"))

	s := newReadyStore(t, kv)
	_, ok := s.Get()
	assert.False(t, ok)
	assert.NoError(t, s.LastError())
	assert.Equal(t, state.StatusReady, s.Status())
}
