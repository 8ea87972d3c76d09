// Package chat keeps the recent chat history. History is transient state:
// it is never persisted and exists only for catch-up display.
package chat

import (
	"sync"
	"time"
)

// DefaultCapacity is how many entries the ring retains.
const DefaultCapacity = 100

// Entry is one chat line.
type Entry struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// History is a bounded ring of the most recent chat entries. When full, the
// oldest entry is dropped.
type History struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{cap: capacity}
}

// Append records an entry, evicting the oldest when the ring is full, and
// returns the stored entry with its timestamp filled in.
func (h *History) Append(sender, message string) Entry {
	e := Entry{
		Sender:    sender,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}

	h.mu.Lock()
	h.entries = append(h.entries, e)
	if len(h.entries) > h.cap {
		h.entries = h.entries[1:]
	}
	h.mu.Unlock()

	return e
}

// Recent returns the retained entries, oldest first.
func (h *History) Recent() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
