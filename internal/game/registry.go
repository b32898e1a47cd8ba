package game

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the process-wide map from match id to its live coordinator.
// It is the only mutable structure shared between coordinators, the message
// router and the matchmaking loop, so it uses a sync.Map for concurrent
// insert/lookup/remove. LoadOrStore is what guarantees at most one live
// coordinator per match id.
type Registry struct {
	sessions sync.Map
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Get returns the live session for a match id, if one is registered.
func (r *Registry) Get(matchID uuid.UUID) (*Session, bool) {
	v, ok := r.sessions.Load(matchID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// LoadOrStore registers the session unless one already exists for the match
// id, in which case the existing session is returned with loaded=true.
func (r *Registry) LoadOrStore(matchID uuid.UUID, s *Session) (*Session, bool) {
	v, loaded := r.sessions.LoadOrStore(matchID, s)
	return v.(*Session), loaded
}

// Remove deregisters a session. Called by the coordinator itself on exit.
func (r *Registry) Remove(matchID uuid.UUID) {
	r.sessions.Delete(matchID)
}

// Active returns the number of registered coordinators.
func (r *Registry) Active() int {
	n := 0
	r.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
