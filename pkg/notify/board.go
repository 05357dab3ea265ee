package notify

import (
	"sync"
	"time"
)

// Board keeps the notices currently visible, newest last.
type Board struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewBoard creates a Board holding at most limit notices.
// When full, the oldest notice is dropped. A non-positive limit means 5.
func NewBoard(limit int) *Board {
	if limit <= 0 {
		limit = 5
	}
	return &Board{limit: limit}
}

// Add places n on the board.
func (b *Board) Add(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	if over := len(b.notices) - b.limit; over > 0 {
		b.notices = append([]Notice(nil), b.notices[over:]...)
	}
}

// Active drops expired notices and returns a copy of the rest.
func (b *Board) Active(now time.Time) []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.notices[:0]
	for _, n := range b.notices {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	b.notices = kept
	return append([]Notice(nil), kept...)
}

// Dismiss removes the notice with the given ID and reports whether it was present.
func (b *Board) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notices {
		if n.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return true
		}
	}
	return false
}

// DismissAll clears the board.
func (b *Board) DismissAll() {
	b.mu.Lock()
	b.notices = nil
	b.mu.Unlock()
}

// Len returns the number of notices on the board including expired ones.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}
