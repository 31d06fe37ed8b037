package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/services/state"
	"labanita/internal/services/voucher"
	"labanita/internal/utils/cache"

	"go.uber.org/zap"
)

// Store is the cart of one device. It is safe for concurrent use.
type Store struct {
	cfg        Config
	vouchers   *voucher.Evaluator
	kv         repositories.KeyValueStore
	writer     *repositories.SnapshotWriter
	life       *state.Lifecycle
	logger     *zap.Logger
	cartKey    string
	voucherKey string

	mu      sync.Mutex
	lines   []models.CartLine
	applied *models.Voucher
}

// NewStore creates an empty cart in StatusLoading. Call Start to hydrate it.
func NewStore(kv repositories.KeyValueStore, vouchers *voucher.Evaluator, cfg Config, logger *zap.Logger) *Store {
	if kv == nil {
		panic("cart key-value store is required")
	}
	if vouchers == nil {
		panic("cart voucher evaluator is required")
	}
	if cfg.MaxQuantity <= 0 {
		cfg.MaxQuantity = DefaultMaxQuantity
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		cfg:        cfg,
		vouchers:   vouchers,
		kv:         kv,
		logger:     logger,
		cartKey:    cache.RecordKey(cfg.Namespace, cache.EntityCart),
		voucherKey: cache.RecordKey(cfg.Namespace, cache.EntityVoucher),
	}
	s.life = state.NewLifecycle(msgLoadFailed, msgSaveFailed, logger)
	s.writer = repositories.NewSnapshotWriter(kv, s.life.WriteResult, logger)
	return s
}

// Start hydrates the cart in the background. Only the first call has effect.
func (s *Store) Start(ctx context.Context) {
	s.life.Start(ctx, s.hydrate)
}

func (s *Store) hydrate(ctx context.Context) error {
	var lines []models.CartLine
	_, linesErr := state.LoadJSON(ctx, s.kv, s.cartKey, &lines, s.logger)

	var saved models.Voucher
	found, voucherErr := state.LoadJSON(ctx, s.kv, s.voucherKey, &saved, s.logger)

	s.mu.Lock()
	s.lines = s.normalize(lines)
	if found && saved.Code != "" {
		s.applied = &saved
	}
	count := len(s.lines)
	s.mu.Unlock()

	s.logger.Info("cart hydrated", zap.Int("lines", count), zap.Bool("voucher", found))
	return errors.Join(linesErr, voucherErr)
}

// normalize drops unusable lines and merges duplicates from older snapshots.
func (s *Store) normalize(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ID == "" || l.Quantity < 1 {
			continue
		}
		if i, ok := index[l.ID]; ok {
			out[i].Quantity = min(out[i].Quantity+l.Quantity, s.cfg.MaxQuantity)
			continue
		}
		l.Quantity = min(l.Quantity, s.cfg.MaxQuantity)
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

func (s *Store) Status() state.Status { return s.life.Status() }

// Ready is closed once hydration has finished.
func (s *Store) Ready() <-chan struct{} { return s.life.Ready() }

func (s *Store) WaitReady(ctx context.Context) error { return s.life.WaitReady(ctx) }

// LastError is the message of the most recent failed operation, or nil.
func (s *Store) LastError() error { return s.life.LastError() }

// Config returns the pricing constants the cart was built with.
func (s *Store) Config() Config { return s.cfg }

// Flush waits until every snapshot enqueued so far has been written.
func (s *Store) Flush(ctx context.Context) error { return s.writer.Flush(ctx) }

// Close drains pending writes and stops the writer.
func (s *Store) Close(ctx context.Context) error { return s.writer.Close(ctx) }

func (s *Store) tooHigh(op string) error {
	return s.life.Failf(op, fmt.Sprintf(msgQuantityHigh, s.cfg.MaxQuantity), ErrQuantityTooHigh)
}

// AddItem merges line into the cart. An existing line for the same ID has
// its quantity increased; the whole call is rejected if that would pass the
// per-item maximum.
func (s *Store) AddItem(line models.CartLine) error {
	const op = "add_item"
	if err := s.life.Begin(op); err != nil {
		return err
	}
	if line.ID == "" || line.UnitPrice <= 0 {
		return s.life.Failf(op, msgAddFailed, ErrInvalidLine)
	}
	if line.Quantity < 1 {
		return s.life.Failf(op, msgQuantityLow, ErrQuantityTooLow)
	}
	if line.Quantity > s.cfg.MaxQuantity {
		return s.tooHigh(op)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(line.ID); i >= 0 {
		next := s.lines[i].Quantity + line.Quantity
		if next > s.cfg.MaxQuantity {
			return s.tooHigh(op)
		}
		s.lines[i].Quantity = next
	} else {
		s.lines = append(s.lines, line)
	}
	s.persistLinesLocked()
	return nil
}

// RemoveItem deletes the line for id. Removing an absent id is a no-op.
func (s *Store) RemoveItem(id string) error {
	if err := s.life.Begin("remove_item"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persistLinesLocked()
	return nil
}

// SetQuantity replaces the quantity of the line for id.
func (s *Store) SetQuantity(id string, quantity int) error {
	const op = "set_quantity"
	if err := s.life.Begin(op); err != nil {
		return err
	}
	if quantity < 1 {
		return s.life.Failf(op, msgQuantityLow, ErrQuantityTooLow)
	}
	if quantity > s.cfg.MaxQuantity {
		return s.tooHigh(op)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return s.life.Failf(op, msgLineNotFound, ErrLineNotFound)
	}
	s.lines[i].Quantity = quantity
	s.persistLinesLocked()
	return nil
}

// Clear empties the cart. The applied voucher survives unless dropVoucher
// is set.
func (s *Store) Clear(dropVoucher bool) error {
	if err := s.life.Begin("clear"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.writer.Remove(s.cartKey)
	if dropVoucher {
		s.applied = nil
		s.writer.Remove(s.voucherKey)
	}
	return nil
}

// TakeForOrder hands a copy of the lines and their totals to accept while
// holding the cart lock. When accept returns nil the cart and its voucher
// are cleared before the lock is released; otherwise nothing changes.
func (s *Store) TakeForOrder(accept func([]models.CartLine, Totals) error) ([]models.CartLine, Totals, error) {
	if err := s.life.Begin("place_order"); err != nil {
		return nil, Totals{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := append([]models.CartLine(nil), s.lines...)
	totals := s.totalsLocked()
	if err := accept(lines, totals); err != nil {
		return nil, Totals{}, err
	}

	s.lines = nil
	s.applied = nil
	s.writer.Remove(s.cartKey)
	s.writer.Remove(s.voucherKey)
	return lines, totals, nil
}

// ApplyVoucher validates v against the current subtotal and makes it the
// applied voucher. On failure the previously applied voucher is kept.
func (s *Store) ApplyVoucher(v models.Voucher) error {
	const op = "apply_voucher"
	if err := s.life.Begin(op); err != nil {
		return err
	}
	v.Code = voucher.Canonical(v.Code)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(op, v)
}

// ApplyVoucherCode looks code up in the catalog and applies it.
func (s *Store) ApplyVoucherCode(code string) (models.Voucher, error) {
	const op = "apply_voucher"
	if err := s.life.Begin(op); err != nil {
		return models.Voucher{}, err
	}

	v, err := s.vouchers.Lookup(code)
	if err != nil {
		return models.Voucher{}, s.life.Failf(op, voucher.UserMessage(err, v), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyLocked(op, v); err != nil {
		return models.Voucher{}, err
	}
	return v, nil
}

func (s *Store) applyLocked(op string, v models.Voucher) error {
	if err := s.vouchers.Validate(v, s.subtotalLocked()); err != nil {
		return s.life.Failf(op, voucher.UserMessage(err, v), err)
	}
	s.applied = &v
	s.persistVoucherLocked()
	return nil
}

// RemoveVoucher drops the applied voucher, if any.
func (s *Store) RemoveVoucher() error {
	if err := s.life.Begin("remove_voucher"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = nil
	s.writer.Remove(s.voucherKey)
	return nil
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.lines...)
}

// AppliedVoucher returns a copy of the applied voucher, or nil.
func (s *Store) AppliedVoucher() *models.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	v := *s.applied
	return &v
}

// Snapshot returns the cart as it would be persisted.
func (s *Store) Snapshot() models.CartState {
	return models.CartState{Lines: s.Lines(), AppliedVoucher: s.AppliedVoucher()}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLinesLocked() {
	lines := s.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	raw, err := state.EncodeJSON(lines)
	if err != nil {
		s.logger.Error("encode cart lines", zap.Error(err))
		s.life.WriteResult(s.cartKey, err)
		return
	}
	s.writer.Set(s.cartKey, raw)
}

func (s *Store) persistVoucherLocked() {
	raw, err := state.EncodeJSON(s.applied)
	if err != nil {
		s.logger.Error("encode applied voucher", zap.Error(err))
		s.life.WriteResult(s.voucherKey, err)
		return
	}
	s.writer.Set(s.voucherKey, raw)
}
