package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/livejobs/pkg/security"
)

// Hub turns Notify calls into Notices and fans them out to subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs []chan Notice
	now  func() time.Time
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{now: time.Now}
}

// Notify builds a Notice and emits it. A non-positive ttl uses DefaultTTL.
func (h *Hub) Notify(level Level, message string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	h.Emit(Notice{
		ID:      uuid.New().String(),
		Level:   level,
		Message: security.SanitizeMessage(message),
		TTL:     ttl,
		At:      h.now(),
	})
}

// Notices returns a channel that receives every emitted notice.
// Slow readers miss notices rather than blocking the emitter.
func (h *Hub) Notices() <-chan Notice {
	ch := make(chan Notice, 64)
	h.mu.Lock()
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel created by Notices. The channel is not closed.
func (h *Hub) Unsubscribe(ch <-chan Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, sub := range h.subs {
		if sub == ch {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Emit sends n to all subscribers.
func (h *Hub) Emit(n Notice) {
	h.mu.RLock()
	subs := make([]chan Notice, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}
}
