package address

import (
	"context"
	"errors"
	"strings"
	"sync"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/services/state"
	"labanita/internal/utils/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrMissingFields   = errors.New("title and address are required")
)

const (
	msgFillAllFields = "Please fill all fields"
	msgNotFound      = "Address not found"
)

// Input is a new address, or the replacement fields of an existing one.
type Input struct {
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Store keeps the delivery addresses saved on the device. At most one
// address is the default, and there is always one while any exist.
type Store struct {
	kv     repositories.KeyValueStore
	writer *repositories.SnapshotWriter
	life   *state.Lifecycle
	logger *zap.Logger
	key    string

	mu        sync.Mutex
	addresses []models.Address
}

func NewStore(kv repositories.KeyValueStore, namespace string, logger *zap.Logger) *Store {
	if kv == nil {
		panic("address key-value store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		kv:     kv,
		logger: logger,
		key:    cache.RecordKey(namespace, cache.EntityAddress),
	}
	s.life = state.NewLifecycle("Failed to load addresses", "Failed to add address. Please try again.", logger)
	s.writer = repositories.NewSnapshotWriter(kv, s.life.WriteResult, logger)
	return s
}

func (s *Store) Start(ctx context.Context) {
	s.life.Start(ctx, s.hydrate)
}

func (s *Store) hydrate(ctx context.Context) error {
	var list []models.Address
	_, err := state.LoadJSON(ctx, s.kv, s.key, &list, s.logger)

	s.mu.Lock()
	s.addresses = list
	s.ensureDefaultLocked()
	s.mu.Unlock()
	return err
}

func (s *Store) Status() state.Status                { return s.life.Status() }
func (s *Store) Ready() <-chan struct{}              { return s.life.Ready() }
func (s *Store) WaitReady(ctx context.Context) error { return s.life.WaitReady(ctx) }
func (s *Store) LastError() error                    { return s.life.LastError() }
func (s *Store) Flush(ctx context.Context) error     { return s.writer.Flush(ctx) }
func (s *Store) Close(ctx context.Context) error     { return s.writer.Close(ctx) }

func valid(in Input) bool {
	return strings.TrimSpace(in.Title) != "" && strings.TrimSpace(in.Address) != ""
}

// Add saves in as a new address and makes it the default.
func (s *Store) Add(in Input) (models.Address, error) {
	const op = "add_address"
	if err := s.life.Begin(op); err != nil {
		return models.Address{}, err
	}
	if !valid(in) {
		return models.Address{}, s.life.Failf(op, msgFillAllFields, ErrMissingFields)
	}

	a := models.Address{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Address:   strings.TrimSpace(in.Address),
		IsDefault: true,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.addresses {
		s.addresses[i].IsDefault = false
	}
	s.addresses = append(s.addresses, a)
	s.persistLocked()
	return a, nil
}

// Update replaces the fields of an existing address; its default flag is
// left alone.
func (s *Store) Update(id string, in Input) (models.Address, error) {
	const op = "update_address"
	if err := s.life.Begin(op); err != nil {
		return models.Address{}, err
	}
	if !valid(in) {
		return models.Address{}, s.life.Failf(op, msgFillAllFields, ErrMissingFields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Address{}, s.life.Failf(op, msgNotFound, ErrAddressNotFound)
	}
	a := &s.addresses[i]
	a.Title = strings.TrimSpace(in.Title)
	a.Address = strings.TrimSpace(in.Address)
	a.Latitude = in.Latitude
	a.Longitude = in.Longitude
	s.persistLocked()
	return *a, nil
}

// Delete removes an address. If it was the default, the first remaining
// address becomes the default.
func (s *Store) Delete(id string) error {
	const op = "delete_address"
	if err := s.life.Begin(op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return s.life.Failf(op, msgNotFound, ErrAddressNotFound)
	}
	s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
	s.ensureDefaultLocked()
	s.persistLocked()
	return nil
}

func (s *Store) SetDefault(id string) error {
	const op = "set_default_address"
	if err := s.life.Begin(op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return s.life.Failf(op, msgNotFound, ErrAddressNotFound)
	}
	for i := range s.addresses {
		s.addresses[i].IsDefault = s.addresses[i].ID == id
	}
	s.persistLocked()
	return nil
}

func (s *Store) List() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Address(nil), s.addresses...)
}

func (s *Store) Get(id string) (models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Address{}, ErrAddressNotFound
	}
	return s.addresses[i], nil
}

// Default returns the default address, if any is saved.
func (s *Store) Default() (models.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return models.Address{}, false
}

func (s *Store) indexLocked(id string) int {
	for i := range s.addresses {
		if s.addresses[i].ID == id {
			return i
		}
	}
	return -1
}

// ensureDefaultLocked promotes the first address when none is default and
// keeps only the first default flag when several are set.
func (s *Store) ensureDefaultLocked() {
	seen := false
	for i := range s.addresses {
		if s.addresses[i].IsDefault {
			if seen {
				s.addresses[i].IsDefault = false
			}
			seen = true
		}
	}
	if !seen && len(s.addresses) > 0 {
		s.addresses[0].IsDefault = true
	}
}

func (s *Store) persistLocked() {
	if len(s.addresses) == 0 {
		s.writer.Remove(s.key)
		return
	}
	raw, err := state.EncodeJSON(s.addresses)
	if err != nil {
		s.logger.Error("encode addresses", zap.Error(err))
		s.life.WriteResult(s.key, err)
		return
	}
	s.writer.Set(s.key, raw)
}
