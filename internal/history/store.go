package history

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
)

// DefaultSessionCapacity bounds how many sessions the store retains.
const DefaultSessionCapacity = 512

// Session pairs a conversation log with an in-flight guard. A session
// admits one query at a time; overlapping requests on the same session
// are rejected rather than interleaved.
type Session struct {
	ID   string
	Ring *Ring

	inFlight atomic.Bool
}

// Begin marks the session busy. It reports false when another query on
// this session is still being answered.
func (s *Session) Begin() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

// End clears the busy mark set by Begin.
func (s *Session) End() {
	s.inFlight.Store(false)
}

// Store hands out sessions keyed by ID, evicting the least recently
// used session when full. Eviction discards that conversation's
// history; clients resume with an empty log under the same ID.
type Store struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
	ringCap  int

	onEvict func(id string)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithEvictionCallback registers fn to run when a session is evicted.
func WithEvictionCallback(fn func(id string)) StoreOption {
	return func(s *Store) {
		s.onEvict = fn
	}
}

// NewStore creates a session store retaining at most sessionCapacity
// sessions, each with a ring of ringCapacity turns.
func NewStore(sessionCapacity, ringCapacity int, opts ...StoreOption) (*Store, error) {
	if sessionCapacity <= 0 {
		sessionCapacity = DefaultSessionCapacity
	}
	s := &Store{ringCap: ringCapacity}
	for _, opt := range opts {
		opt(s)
	}
	cache, err := lru.NewWithEvict(sessionCapacity, func(id string, _ *Session) {
		if s.onEvict != nil {
			s.onEvict(id)
		}
	})
	if err != nil {
		return nil, err
	}
	s.sessions = cache
	return s, nil
}

// Get returns the session for id, creating it when absent. An empty id
// mints a fresh session with a generated ID.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if session, ok := s.sessions.Get(id); ok {
		return session
	}
	session := &Session{ID: id, Ring: NewRing(s.ringCap)}
	s.sessions.Add(id, session)
	return session
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len()
}

// Reset drops the session for id, if present.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(id)
}
