package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

// recordingStore captures every Save call in order.
type recordingStore struct {
	mu    sync.Mutex
	saves []*mockSpec
}

func (r *recordingStore) Save(key string, v *mockSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, v)
	return nil
}

func (r *recordingStore) Get(string) *mockSpec         { return nil }
func (r *recordingStore) GetAll() map[string]*mockSpec { return nil }
func (r *recordingStore) Len() int                     { return 0 }

func (r *recordingStore) saved() []*mockSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*mockSpec, len(r.saves))
	copy(out, r.saves)
	return out
}

func TestQueuedWriter_CoalescesPerKey(t *testing.T) {
	store := &recordingStore{}
	w := NewQueuedWriter[*mockSpec](store)

	// Three snapshots before any drain: only the newest may hit disk.
	w.mu.Lock() // hold the lock so no concurrent drain can interleave
	w.pending["a"] = &mockSpec{Value: 1}
	w.pending["a"] = &mockSpec{Value: 2}
	w.pending["a"] = &mockSpec{Value: 3}
	w.mu.Unlock()

	w.Flush()

	saves := store.saved()
	testutil.AssertEqual(t, "save count", len(saves), 1)
	testutil.AssertEqual(t, "saved value", saves[0].Value, 3)
}

func TestQueuedWriter_DrainsOnWake(t *testing.T) {
	store := &recordingStore{}
	w := NewQueuedWriter[*mockSpec](store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx)
	}()

	w.Enqueue("a", &mockSpec{Value: 1})

	deadline := time.After(2 * time.Second)
	for len(store.saved()) == 0 {
		select {
		case <-deadline:
			t.Fatal("snapshot never drained")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestQueuedWriter_FlushesOnShutdown(t *testing.T) {
	store := &recordingStore{}
	w := NewQueuedWriter[*mockSpec](store)

	// Enqueue without a running drain loop, then start and cancel
	// immediately: shutdown must still write the snapshot out.
	w.mu.Lock()
	w.pending["a"] = &mockSpec{Value: 9}
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saves := store.saved()
	testutil.AssertEqual(t, "save count", len(saves), 1)
	testutil.AssertEqual(t, "saved value", saves[0].Value, 9)
}
