package user

import (
	"context"
	"errors"
	"strings"
	"sync"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/services/state"
	"labanita/internal/utils/cache"
	"labanita/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidProfile = errors.New("profile is invalid")
	ErrNotSignedIn    = errors.New("no user profile")
)

// ValidationError lists the profile fields that were rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, field := range []string{validation.FieldName, validation.FieldPhone, validation.FieldEmail} {
		if msg, ok := e.Fields[field]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidProfile }

// Store holds the profile of the signed-in customer, if any.
type Store struct {
	kv     repositories.KeyValueStore
	writer *repositories.SnapshotWriter
	life   *state.Lifecycle
	logger *zap.Logger
	key    string

	mu   sync.Mutex
	user *models.User
}

func NewStore(kv repositories.KeyValueStore, namespace string, logger *zap.Logger) *Store {
	if kv == nil {
		panic("user key-value store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		kv:     kv,
		logger: logger,
		key:    cache.RecordKey(namespace, cache.EntityUser),
	}
	s.life = state.NewLifecycle("Failed to load profile", "Failed to update profile", logger)
	s.writer = repositories.NewSnapshotWriter(kv, s.life.WriteResult, logger)
	return s
}

func (s *Store) Start(ctx context.Context) {
	s.life.Start(ctx, s.hydrate)
}

func (s *Store) hydrate(ctx context.Context) error {
	var u models.User
	found, err := state.LoadJSON(ctx, s.kv, s.key, &u, s.logger)
	if found {
		s.mu.Lock()
		s.user = &u
		s.mu.Unlock()
	}
	return err
}

func (s *Store) Status() state.Status                { return s.life.Status() }
func (s *Store) Ready() <-chan struct{}              { return s.life.Ready() }
func (s *Store) WaitReady(ctx context.Context) error { return s.life.WaitReady(ctx) }
func (s *Store) LastError() error                    { return s.life.LastError() }
func (s *Store) Flush(ctx context.Context) error     { return s.writer.Flush(ctx) }
func (s *Store) Close(ctx context.Context) error     { return s.writer.Close(ctx) }

// Get returns the current profile.
func (s *Store) Get() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Update merges the non-nil fields of in into the profile, creating it if
// needed. Only the supplied fields are validated.
func (s *Store) Update(in models.UserUpdate) (models.User, error) {
	if err := s.life.Begin("update_user"); err != nil {
		return models.User{}, err
	}

	if fields := validateUpdate(in); len(fields) > 0 {
		return models.User{}, s.life.Fail(&ValidationError{Fields: fields})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var u models.User
	if s.user != nil {
		u = *s.user
	}
	apply(&u, in)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.user = &u

	raw, err := state.EncodeJSON(u)
	if err != nil {
		s.logger.Error("encode user", zap.Error(err))
		s.life.WriteResult(s.key, err)
		return u, nil
	}
	s.writer.Set(s.key, raw)
	return u, nil
}

// Logout forgets the profile and removes its record.
func (s *Store) Logout() error {
	if err := s.life.Begin("logout"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.writer.Remove(s.key)
	return nil
}

func validateUpdate(in models.UserUpdate) map[string]string {
	v := validation.New()
	if in.Name != nil {
		v.Required(validation.FieldName, *in.Name, "Name is required")
	}
	if in.Phone != nil {
		v.Phone(validation.FieldPhone, *in.Phone, "Invalid phone number")
	}
	if in.Email != nil {
		v.Email(validation.FieldEmail, *in.Email, "Invalid email format")
	}
	return v.Errors
}

func apply(u *models.User, in models.UserUpdate) {
	if in.ID != nil {
		u.ID = *in.ID
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Points != nil {
		u.Points = *in.Points
	}
	if in.ProfileImage != nil {
		img := *in.ProfileImage
		u.ProfileImage = &img
	}
}
