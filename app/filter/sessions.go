package filter

import (
	"sync"

	"github.com/google/uuid"
	"github.com/lysyi3m/bill-comb/app/catalog"
)

// Sessions holds one State per viewing session. All states share the
// process-wide catalog.
type Sessions struct {
	catalog *catalog.Catalog

	mu     sync.RWMutex
	states map[string]*State
}

func NewSessions(c *catalog.Catalog) *Sessions {
	return &Sessions{
		catalog: c,
		states:  make(map[string]*State),
	}
}

// Create starts a session with an empty selection.
func (s *Sessions) Create() (string, *State) {
	id := uuid.NewString()
	state := NewState(s.catalog)

	s.mu.Lock()
	s.states[id] = state
	s.mu.Unlock()

	return id, state
}

func (s *Sessions) Get(id string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	return state, ok
}

// Delete removes the session and closes its state, ending any open
// event streams.
func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	state, ok := s.states[id]
	delete(s.states, id)
	s.mu.Unlock()

	if ok {
		state.Close()
	}
	return ok
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *Sessions) Catalog() *catalog.Catalog {
	return s.catalog
}
