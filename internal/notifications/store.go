package notifications

import (
	"sync"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// DefaultCapacity is how many undelivered toasts a session keeps.
const DefaultCapacity = 20

// Store buffers undelivered toasts per session for clients that poll
// instead of holding a WebSocket open. Older toasts are dropped once a
// session's buffer is full.
type Store struct {
	mu       sync.Mutex
	capacity int
	pending  map[session.ID][]Toast
}

// NewStore creates a store keeping at most capacity toasts per session.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, pending: make(map[session.ID][]Toast)}
}

// Add buffers t for its session.
func (s *Store) Add(t Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := append(s.pending[t.SessionID], t)
	if len(q) > s.capacity {
		q = q[len(q)-s.capacity:]
	}
	s.pending[t.SessionID] = q
}

// Drain returns and forgets the session's buffered toasts, oldest first.
func (s *Store) Drain(sid session.ID) []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.pending[sid]
	delete(s.pending, sid)
	return q
}

// Forget drops anything buffered for the session.
func (s *Store) Forget(sid session.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, sid)
}
