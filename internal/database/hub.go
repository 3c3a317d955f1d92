package database

import (
	"sync"
)

// Table names used as change-notification topics.
const (
	TableBooks           = "books"
	TableReadingProgress = "reading_progress"
	TableReviews         = "reviews"
)

// Hub fans out table-change notifications to live-query subscribers.
// Repositories call Notify after every successful write; each watcher
// re-runs its query and pushes a fresh snapshot to its subscriber.
//
// Notifications are coalesced: a subscriber channel has capacity one,
// so a burst of writes between two re-queries collapses into a single
// wakeup. Subscribers therefore observe "eventually the latest state",
// never every intermediate state.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[chan struct{}]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers interest in one or more tables. The returned
// channel receives a wakeup after any write to those tables. The
// cancel function must be called when the subscriber is done.
func (h *Hub) Subscribe(tables ...string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	for _, table := range tables {
		if h.subs[table] == nil {
			h.subs[table] = make(map[chan struct{}]struct{})
		}
		h.subs[table][ch] = struct{}{}
	}

	subscribed := append([]string(nil), tables...)
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, table := range subscribed {
			delete(h.subs[table], ch)
		}
	}
	return ch, cancel
}

// Notify wakes every subscriber of the given table. Safe to call
// concurrently with Subscribe and from multiple writers.
func (h *Hub) Notify(table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for ch := range h.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
			// A wakeup is already pending; the subscriber will
			// re-query and observe this write too.
		}
	}
}

// Close tears down the hub. Subsequent Notify calls are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = make(map[string]map[chan struct{}]struct{})
}
