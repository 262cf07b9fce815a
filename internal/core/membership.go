package core

import (
	"sync"

	"github.com/samber/lo"
)

// Membership maps a team ID to the set of connection IDs currently
// subscribed to that team's channel. It holds only opaque IDs; resolving an
// ID to a live connection happens at fan-out time, so a stale entry is
// harmless.
type Membership struct {
	mu    sync.RWMutex
	teams map[string]map[string]struct{}
}

// NewMembership constructs an empty membership index.
func NewMembership() *Membership {
	return &Membership{teams: make(map[string]map[string]struct{})}
}

// Join adds connID to the team's member set, creating the set if absent.
// Joining twice has no additional effect.
func (m *Membership) Join(team, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.teams[team]
	if !ok {
		set = make(map[string]struct{})
		m.teams[team] = set
	}
	set[connID] = struct{}{}
}

// Leave removes connID from the team's member set; no-op if absent. Empty
// sets are dropped so abandoned teams do not accumulate.
func (m *Membership) Leave(team, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.teams[team]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(m.teams, team)
	}
}

// Members returns a snapshot of the team's member IDs. The snapshot is a
// copy, so iterating it is safe while other goroutines join and leave.
func (m *Membership) Members(team string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Keys(m.teams[team])
}

// Contains reports whether connID is currently in the team's member set.
func (m *Membership) Contains(team, connID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.teams[team][connID]
	return ok
}
