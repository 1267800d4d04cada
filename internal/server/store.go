package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ha1tch/nfa2dfa/pkg/session"
)

// ErrStoreFull is returned when the session limit is reached.
var ErrStoreFull = errors.New("session limit reached")

// Store holds live editing sessions by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	max      int
	factory  func() *session.Session
}

// NewStore creates a store holding at most max sessions, each created
// by factory.
func NewStore(max int, factory func() *session.Session) *Store {
	return &Store{
		sessions: make(map[string]*session.Session),
		max:      max,
		factory:  factory,
	}
}

// Create starts a new session.
func (st *Store) Create() (string, *session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= st.max {
		return "", nil, ErrStoreFull
	}
	id := uuid.NewString()
	s := st.factory()
	st.sessions[id] = s
	return id, s, nil
}

// Get returns a session by id.
func (st *Store) Get(id string) (*session.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete ends a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
