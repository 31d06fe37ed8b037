// Package state holds the hydration and error bookkeeping shared by the
// device-local stores (cart, addresses, user, saved cards).
//
// A store starts in StatusLoading, reads its records once from the key-value
// store and flips to StatusReady. Mutations before that point are refused
// with ErrStoreLoading so an in-flight load can never overwrite them.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"labanita/internal/repositories"

	"go.uber.org/zap"
)

// Status is the hydration state of a store.
type Status int32

const (
	StatusLoading Status = iota
	StatusReady
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "loading"
}

var (
	ErrStoreLoading = errors.New("store is still loading")
	ErrPersistence  = errors.New("persistence failed")
	ErrHydration    = errors.New("hydration failed")
)

// Error is a store failure carrying the message shown to the user. Unwrap
// exposes the sentinel for errors.Is.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error for op wrapping err.
func NewError(op, message string, err error) *Error {
	return &Error{Op: op, Message: message, Err: err}
}

// Lifecycle tracks hydration and the last user-visible error of one store.
type Lifecycle struct {
	loadMessage string
	saveMessage string
	logger      *zap.Logger

	status    atomic.Int32
	ready     chan struct{}
	readyOnce sync.Once
	startOnce sync.Once

	mu      sync.Mutex
	lastErr error
}

// NewLifecycle returns a Lifecycle in StatusLoading. loadMessage and
// saveMessage are what LastError reports after a failed read or write.
func NewLifecycle(loadMessage, saveMessage string, logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{
		loadMessage: loadMessage,
		saveMessage: saveMessage,
		logger:      logger,
		ready:       make(chan struct{}),
	}
}

// Start runs load once in the background and marks the store ready when it
// returns, whether or not it failed.
func (l *Lifecycle) Start(ctx context.Context, load func(context.Context) error) {
	l.startOnce.Do(func() {
		go func() {
			if err := load(ctx); err != nil {
				l.logger.Error("hydration failed", zap.Error(err))
				l.SetError(NewError("load", l.loadMessage, fmt.Errorf("%w: %w", ErrHydration, err)))
			}
			l.markReady()
		}()
	})
}

func (l *Lifecycle) markReady() {
	l.readyOnce.Do(func() {
		l.status.Store(int32(StatusReady))
		close(l.ready)
	})
}

func (l *Lifecycle) Status() Status {
	return Status(l.status.Load())
}

// Ready is closed once hydration has finished.
func (l *Lifecycle) Ready() <-chan struct{} {
	return l.ready
}

func (l *Lifecycle) IsReady() bool {
	return l.Status() == StatusReady
}

// WaitReady blocks until hydration finishes or ctx is done.
func (l *Lifecycle) WaitReady(ctx context.Context) error {
	select {
	case <-l.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Guard returns ErrStoreLoading wrapped for op until the store is ready.
func (l *Lifecycle) Guard(op string) error {
	if l.IsReady() {
		return nil
	}
	return NewError(op, "Please wait, data is still loading", ErrStoreLoading)
}

func (l *Lifecycle) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Lifecycle) SetError(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
}

// Begin rejects op until hydration is done. Otherwise it clears the last
// error, except a pending persistence failure, which only a successful
// write clears.
func (l *Lifecycle) Begin(op string) error {
	if err := l.Guard(op); err != nil {
		return err
	}
	l.mu.Lock()
	if !errors.Is(l.lastErr, ErrPersistence) {
		l.lastErr = nil
	}
	l.mu.Unlock()
	return nil
}

// Fail records err as the last error and returns it. A pending persistence
// failure is kept; the caller still gets err.
func (l *Lifecycle) Fail(err error) error {
	l.mu.Lock()
	if !errors.Is(l.lastErr, ErrPersistence) {
		l.lastErr = err
	}
	l.mu.Unlock()
	return err
}

// Failf is Fail with an *Error built from op, message and err.
func (l *Lifecycle) Failf(op, message string, err error) error {
	return l.Fail(NewError(op, message, err))
}

// WriteResult is the SnapshotWriter callback. A failed write is recorded;
// a later successful write clears a recorded persistence failure.
func (l *Lifecycle) WriteResult(key string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.lastErr = NewError("save", l.saveMessage, fmt.Errorf("%w: %s: %w", ErrPersistence, key, err))
		return
	}
	if errors.Is(l.lastErr, ErrPersistence) {
		l.lastErr = nil
	}
}

// LoadJSON reads key and decodes it into dest. A missing key reports false.
// Undecodable data is logged and also reports false, so a corrupt record
// behaves like no saved data.
func LoadJSON(ctx context.Context, kv repositories.KeyValueStore, key string, dest any, logger *zap.Logger) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		if logger != nil {
			logger.Warn("discarding undecodable record", zap.String("key", key), zap.Error(err))
		}
		return false, nil
	}
	return true, nil
}

// EncodeJSON marshals v for a snapshot write.
func EncodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
