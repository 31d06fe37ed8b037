package creditcard

import (
	"context"
	"sync"
	"time"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/services/state"
	"labanita/internal/utils/cache"
	"labanita/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgLoadFailed   = "Failed to load saved cards"
	msgSaveFailed   = "Failed to save card data"
	msgCardNotFound = "Card not found"
)

// Store keeps the saved payment cards of the device. Only SavedCard
// records ever reach storage.
type Store struct {
	kv     repositories.KeyValueStore
	writer *repositories.SnapshotWriter
	life   *state.Lifecycle
	logger *zap.Logger
	key    string
	now    func() time.Time

	mu    sync.Mutex
	cards []models.SavedCard
}

// NewStore creates an empty card store; now defaults to time.Now.
func NewStore(kv repositories.KeyValueStore, namespace string, now func() time.Time, logger *zap.Logger) *Store {
	if kv == nil {
		panic("card key-value store is required")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		kv:     kv,
		logger: logger,
		key:    cache.RecordKey(namespace, cache.EntityCards),
		now:    now,
	}
	s.life = state.NewLifecycle(msgLoadFailed, msgSaveFailed, logger)
	s.writer = repositories.NewSnapshotWriter(kv, s.life.WriteResult, logger)
	return s
}

func (s *Store) Start(ctx context.Context) {
	s.life.Start(ctx, s.hydrate)
}

func (s *Store) hydrate(ctx context.Context) error {
	var cards []models.SavedCard
	_, err := state.LoadJSON(ctx, s.kv, s.key, &cards, s.logger)

	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
	return err
}

func (s *Store) Status() state.Status                { return s.life.Status() }
func (s *Store) Ready() <-chan struct{}              { return s.life.Ready() }
func (s *Store) WaitReady(ctx context.Context) error { return s.life.WaitReady(ctx) }
func (s *Store) LastError() error                    { return s.life.LastError() }
func (s *Store) Flush(ctx context.Context) error     { return s.writer.Flush(ctx) }
func (s *Store) Close(ctx context.Context) error     { return s.writer.Close(ctx) }

// Add validates form and saves its storage-safe form. A missing card type
// is detected from the number. The first saved card becomes the default.
func (s *Store) Add(form models.CardForm) (models.SavedCard, error) {
	if err := s.life.Begin("add_card"); err != nil {
		return models.SavedCard{}, err
	}
	if form.Type == models.CardTypeNone {
		form.Type = DetectCardType(form.Number)
	}
	if fields := ValidateCardForm(form, s.now()); !fields.Valid() {
		return models.SavedCard{}, s.life.Fail(&ValidationError{Fields: fields})
	}

	card := NewSavedCard(form)
	card.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	card.IsDefault = len(s.cards) == 0
	s.cards = append(s.cards, card)
	s.persistLocked()

	s.logger.Info("card saved", zap.String("id", card.ID), zap.String("type", string(card.CardType)))
	return card, nil
}

// List returns the saved cards in the order they were added.
func (s *Store) List() []models.SavedCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SavedCard(nil), s.cards...)
}

func (s *Store) Get(id string) (models.SavedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.SavedCard{}, ErrCardNotFound
	}
	return s.cards[i], nil
}

// Default returns the default card, if any card is saved.
func (s *Store) Default() (models.SavedCard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.IsDefault {
			return c, true
		}
	}
	return models.SavedCard{}, false
}

// Update changes the holder name and expiry of a saved card. Both are
// validated with the add-card rules.
func (s *Store) Update(id, holder, expiry string) (models.SavedCard, error) {
	const op = "update_card"
	if err := s.life.Begin(op); err != nil {
		return models.SavedCard{}, err
	}

	v := validation.New()
	validateHolder(v, holder)
	validateExpiry(v, expiry, s.now())
	if !v.Valid() {
		fields := toFieldErrors(v, []string{validation.FieldCardHolder, validation.FieldExpiryDate})
		return models.SavedCard{}, s.life.Fail(&ValidationError{Fields: fields})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.SavedCard{}, s.life.Failf(op, msgCardNotFound, ErrCardNotFound)
	}
	s.cards[i].HolderName = holder
	s.cards[i].Expiry = expiry
	s.persistLocked()
	return s.cards[i], nil
}

// Delete removes a card. When the default card goes, the first remaining
// card takes its place.
func (s *Store) Delete(id string) error {
	const op = "delete_card"
	if err := s.life.Begin(op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return s.life.Failf(op, msgCardNotFound, ErrCardNotFound)
	}
	wasDefault := s.cards[i].IsDefault
	s.cards = append(s.cards[:i], s.cards[i+1:]...)
	if wasDefault && len(s.cards) > 0 {
		s.cards[0].IsDefault = true
	}
	s.persistLocked()
	return nil
}

// SetDefault marks id as the default card and clears the flag elsewhere.
func (s *Store) SetDefault(id string) error {
	const op = "set_default_card"
	if err := s.life.Begin(op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return s.life.Failf(op, msgCardNotFound, ErrCardNotFound)
	}
	for i := range s.cards {
		s.cards[i].IsDefault = s.cards[i].ID == id
	}
	s.persistLocked()
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() {
	if len(s.cards) == 0 {
		s.writer.Remove(s.key)
		return
	}
	raw, err := state.EncodeJSON(s.cards)
	if err != nil {
		s.logger.Error("encode saved cards", zap.Error(err))
		s.life.WriteResult(s.key, err)
		return
	}
	s.writer.Set(s.key, raw)
}
