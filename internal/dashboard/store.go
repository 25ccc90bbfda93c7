package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store maps session ids to States. Sessions idle for longer than the TTL
// are dropped on lookup and swept whenever a new session is created.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*State
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*State),
		now:      time.Now,
	}
}

// Get returns the live session for id and marks it as used.
func (s *Store) Get(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.expired(st, now) {
		delete(s.sessions, id)
		return nil, false
	}

	st.touch(now)
	return st, true
}

// Create starts a new session with a random id.
func (s *Store) Create() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, st := range s.sessions {
		if s.expired(st, now) {
			delete(s.sessions, id)
		}
	}

	st := NewState(uuid.NewString())
	st.touch(now)
	s.sessions[st.ID()] = st
	return st
}

// GetOrCreate returns the session for id, or a new one when id is unknown or
// expired. created reports which happened.
func (s *Store) GetOrCreate(id string) (st *State, created bool) {
	if id != "" {
		if st, ok := s.Get(id); ok {
			return st, false
		}
	}
	return s.Create(), true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *Store) expired(st *State, now time.Time) bool {
	return s.ttl > 0 && now.Sub(st.idleSince()) > s.ttl
}
