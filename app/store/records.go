package store

import (
	"context"
	"fmt"
	"sync"
)

// ChangeFunc is notified after every appended batch with the half-open
// range [from, to) of the newly added items.
type ChangeFunc func(ctx context.Context, from, to int)

// Records is an ordered, append-only collection of articles.
// It is safe for concurrent use, appends are serialized, so each batch
// occupies a contiguous range and notifications arrive in append order.
type Records struct {
	appendMu sync.Mutex // serializes append+notify

	mu          sync.RWMutex
	items       []Article
	subscribers []ChangeFunc
}

// NewRecords makes an empty collection.
func NewRecords() *Records {
	return &Records{}
}

// Subscribe adds a function to be called after each appended batch.
func (r *Records) Subscribe(fn ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Append adds articles to the end of the collection, preserving their
// order, and notifies subscribers, even if the batch is empty.
func (r *Records) Append(ctx context.Context, articles ...Article) {
	r.appendMu.Lock()
	defer r.appendMu.Unlock()

	r.mu.Lock()
	from := len(r.items)
	r.items = append(r.items, articles...)
	to := len(r.items)
	subs := make([]ChangeFunc, len(r.subscribers))
	copy(subs, r.subscribers)
	r.mu.Unlock()

	// subscribers read the collection back, so they're called without the lock
	for _, fn := range subs {
		fn(ctx, from, to)
	}
}

// At returns the article at the given index.
// It panics if the index is out of range.
func (r *Records) At(i int) Article {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.items) {
		panic(fmt.Sprintf("store: record index %d out of range [0, %d)", i, len(r.items)))
	}

	return r.items[i]
}

// Count returns the number of articles in the collection.
func (r *Records) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Clear drops all articles, subscribers are kept.
// It is called when the list is torn down.
func (r *Records) Clear() {
	r.appendMu.Lock()
	defer r.appendMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
