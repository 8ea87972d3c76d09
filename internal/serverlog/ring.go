// Package serverlog captures recent log records in memory so they can be
// inspected at runtime without scraping process output.
package serverlog

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultCapacity is how many records the ring retains.
const DefaultCapacity = 1000

// Entry is one captured log record.
type Entry struct {
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Ring is a bounded buffer of the most recent log records. It implements
// slog.Handler so it can be layered in front of another handler.
type Ring struct {
	next slog.Handler

	mu      sync.Mutex
	entries []Entry
	cap     int
}

// NewRing wraps next with a capturing handler. Records pass through to next
// unchanged.
func NewRing(next slog.Handler, capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{next: next, cap: capacity}
}

func (r *Ring) Enabled(ctx context.Context, level slog.Level) bool {
	return r.next.Enabled(ctx, level)
}

func (r *Ring) Handle(ctx context.Context, rec slog.Record) error {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{
		Timestamp: rec.Time.UnixMilli(),
		Level:     rec.Level.String(),
		Message:   rec.Message,
	})
	if len(r.entries) > r.cap {
		r.entries = r.entries[1:]
	}
	r.mu.Unlock()

	return r.next.Handle(ctx, rec)
}

func (r *Ring) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringChild{ring: r, next: r.next.WithAttrs(attrs)}
}

func (r *Ring) WithGroup(name string) slog.Handler {
	return &ringChild{ring: r, next: r.next.WithGroup(name)}
}

// Entries returns the retained records, oldest first.
func (r *Ring) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ringChild shares the parent ring's buffer while carrying derived handler
// state from WithAttrs/WithGroup.
type ringChild struct {
	ring *Ring
	next slog.Handler
}

func (c *ringChild) Enabled(ctx context.Context, level slog.Level) bool {
	return c.next.Enabled(ctx, level)
}

func (c *ringChild) Handle(ctx context.Context, rec slog.Record) error {
	c.ring.mu.Lock()
	c.ring.entries = append(c.ring.entries, Entry{
		Timestamp: rec.Time.UnixMilli(),
		Level:     rec.Level.String(),
		Message:   rec.Message,
	})
	if len(c.ring.entries) > c.ring.cap {
		c.ring.entries = c.ring.entries[1:]
	}
	c.ring.mu.Unlock()

	return c.next.Handle(ctx, rec)
}

func (c *ringChild) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringChild{ring: c.ring, next: c.next.WithAttrs(attrs)}
}

func (c *ringChild) WithGroup(name string) slog.Handler {
	return &ringChild{ring: c.ring, next: c.next.WithGroup(name)}
}
