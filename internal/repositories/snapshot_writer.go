package repositories

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// WriteResult reports the outcome of one persisted snapshot.
type WriteResult func(key string, err error)

type writeJob struct {
	key    string
	value  string
	remove bool
}

// SnapshotWriter serializes writes to a KeyValueStore through a single
// goroutine. Each job carries a complete record snapshot, so the value left
// in storage is always the last one enqueued for that key. Enqueue never
// blocks the caller.
type SnapshotWriter struct {
	store    KeyValueStore
	onResult WriteResult
	logger   *zap.Logger

	mu       sync.Mutex
	queue    []writeJob
	inflight bool
	waiters  []chan struct{}
	closed   bool

	wake chan struct{}
	done chan struct{}
}

// NewSnapshotWriter starts the writer goroutine. onResult may be nil.
func NewSnapshotWriter(store KeyValueStore, onResult WriteResult, logger *zap.Logger) *SnapshotWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &SnapshotWriter{
		store:    store,
		onResult: onResult,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Set enqueues a snapshot write of value under key.
func (w *SnapshotWriter) Set(key, value string) {
	w.enqueue(writeJob{key: key, value: value})
}

// Remove enqueues deletion of key.
func (w *SnapshotWriter) Remove(key string) {
	w.enqueue(writeJob{key: key, remove: true})
}

func (w *SnapshotWriter) enqueue(job writeJob) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("snapshot dropped after close", zap.String("key", job.key))
		return
	}
	// A queued job for the same key is superseded in place.
	replaced := false
	for i := range w.queue {
		if w.queue[i].key == job.key {
			w.queue[i] = job
			replaced = true
			break
		}
	}
	if !replaced {
		w.queue = append(w.queue, job)
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *SnapshotWriter) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			w.inflight = false
			w.releaseWaitersLocked()
			if w.closed {
				w.mu.Unlock()
				return
			}
			w.mu.Unlock()
			<-w.wake
			continue
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		w.inflight = true
		w.mu.Unlock()

		w.apply(job)
	}
}

func (w *SnapshotWriter) apply(job writeJob) {
	ctx := context.Background()
	var err error
	if job.remove {
		err = w.store.Remove(ctx, job.key)
	} else {
		err = w.store.Set(ctx, job.key, job.value)
	}
	if err != nil {
		w.logger.Error("snapshot write failed",
			zap.String("key", job.key),
			zap.Bool("remove", job.remove),
			zap.Error(err),
		)
	}
	if w.onResult != nil {
		w.onResult(job.key, err)
	}
}

func (w *SnapshotWriter) releaseWaitersLocked() {
	for _, ch := range w.waiters {
		close(ch)
	}
	w.waiters = nil
}

// Flush blocks until every snapshot enqueued so far has been written or ctx
// is done.
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.queue) == 0 && !w.inflight {
		w.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending snapshots and stops the writer goroutine.
func (w *SnapshotWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
