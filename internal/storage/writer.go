package storage

import (
	"context"
	"log/slog"
	"sync"
)

// Saver accepts record snapshots for durable storage without blocking the
// caller.
type Saver[T ValidatingSpec] interface {
	Enqueue(key string, val T)
}

// QueuedWriter drains snapshots to a Storer on a single background
// goroutine. Snapshots coalesce per key: only the most recent snapshot for a
// key is ever written, so a stale state can never land on disk after a newer
// one. Write failures are logged and dropped; in-memory state stays the
// source of truth for the running process.
type QueuedWriter[T ValidatingSpec] struct {
	store Storer[T]

	mu      sync.Mutex
	pending map[string]T
	wake    chan struct{}
}

func NewQueuedWriter[T ValidatingSpec](store Storer[T]) *QueuedWriter[T] {
	return &QueuedWriter[T]{
		store:   store,
		pending: map[string]T{},
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue records val as the latest snapshot for key and wakes the drain
// loop. It never blocks.
func (w *QueuedWriter[T]) Enqueue(key string, val T) {
	w.mu.Lock()
	w.pending[key] = val
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Start drains pending snapshots until the context is canceled, then flushes
// whatever is left.
func (w *QueuedWriter[T]) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil
		case <-w.wake:
			w.drain()
		}
	}
}

// Flush synchronously writes out everything currently pending.
func (w *QueuedWriter[T]) Flush() {
	w.drain()
}

func (w *QueuedWriter[T]) drain() {
	w.mu.Lock()
	batch := w.pending
	w.pending = map[string]T{}
	w.mu.Unlock()

	for key, val := range batch {
		if err := w.store.Save(key, val); err != nil {
			slog.Error("persisting record", "key", key, "error", err)
		}
	}
}
