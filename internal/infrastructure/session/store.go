// Package session keeps live register carts in memory. A cart exists only
// for the duration of one sale; settlement clears it and nothing here is
// ever persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/cart"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// Session wraps one cart with the per-register serialization the engine
// requires: every mutation (including its gift recompute) finishes before
// the next one starts, and a scan awaiting disambiguation blocks new scans.
type Session struct {
	mu sync.Mutex

	Cart        *cart.Cart
	PendingScan []cart.Match // candidates awaiting an explicit selection

	lastScanCode string
	lastScanAt   time.Time
}

// WithLock runs fn with exclusive access to the session.
func (s *Session) WithLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Debounced reports whether a scan repeats the last accepted code within the
// window. Scanner hardware double-fires; the duplicate event is dropped.
func (s *Session) Debounced(code string, window time.Duration) bool {
	return s.lastScanCode == code && time.Since(s.lastScanAt) < window
}

// MarkScanned records an accepted scan for debounce tracking. Failed
// resolutions are never recorded, so re-scanning an unknown code repeats the
// not-found signal instead of being swallowed as a duplicate.
func (s *Session) MarkScanned(code string) {
	s.lastScanCode = code
	s.lastScanAt = time.Now()
}

// Store holds the open sessions keyed by cart id.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Open creates a session around a fresh cart.
func (st *Store) Open(c *cart.Cart) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Session{Cart: c}
	st.sessions[c.ID] = s
	return s
}

// Get returns the session for a cart id.
func (st *Store) Get(cartID uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[cartID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart session")
	}
	return s, nil
}

// Close removes a session, normally after settlement.
func (st *Store) Close(cartID uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, cartID)
}
