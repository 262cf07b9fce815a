package core

import "sync"

// Session is the per-connection identity record. A session starts unjoined
// and without a team; Team, once set, never changes for the session's lifetime.
type Session struct {
	ConnID string
	Name   string
	Team   string
	Joined bool
}

// Registry owns all live sessions, keyed by connection ID. All methods are
// safe for concurrent use; callers receive value copies, never internal state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry constructs an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register creates an unjoined session for connID. Returns
// ErrDuplicateRegistration if the ID is already present.
func (r *Registry) Register(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[connID]; exists {
		return ErrDuplicateRegistration
	}
	r.sessions[connID] = &Session{ConnID: connID}
	return nil
}

// Lookup returns a copy of the session, or ErrSessionNotFound. A missing
// session means the connection already disconnected.
func (r *Registry) Lookup(connID string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *s, nil
}

// MarkJoined flags the session as joined and sets its display name, falling
// back to DefaultName when empty. Calling it again only updates the name.
// Returns the resulting session state.
func (r *Registry) MarkJoined(connID, name string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if name == "" {
		name = DefaultName
	}
	s.Joined = true
	s.Name = name
	return *s, nil
}

// SetTeam records the session's team affiliation. The first write wins;
// later calls with a different team are ignored so the affiliation stays
// immutable for the session's lifetime.
func (r *Registry) SetTeam(connID, team string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.Team == "" {
		s.Team = team
	}
	return *s, nil
}

// Remove deletes the session and returns its last known state so the caller
// can emit departure notices and purge membership. Removing an unknown ID
// returns ErrSessionNotFound, which disconnect handling treats as
// "cleanup already ran".
func (r *Registry) Remove(connID string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	delete(r.sessions, connID)
	return *s, nil
}
