package cache

import (
	"sync"

	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/room"
)

// Manager tracks which rooms are resident and which are queued for
// background generation, and computes the load/unload sets as the player
// moves. It holds IDs only; the rooms themselves live in the caller's map.
type Manager struct {
	mu     sync.Mutex
	loaded map[string]bool
	queued map[string]bool
}

// NewManager creates an empty adjacency manager.
func NewManager() *Manager {
	return &Manager{
		loaded: make(map[string]bool),
		queued: make(map[string]bool),
	}
}

// keepSet is the current room plus every neighbor reachable through an open
// exit.
func keepSet(pos dungeon.Position, g *dungeon.Grid) map[string]bool {
	keep := map[string]bool{pos.RoomID(): true}
	for _, n := range g.OpenNeighbors(pos) {
		keep[n.RoomID()] = true
	}
	return keep
}

// RoomsToLoad returns the IDs that should be resident but are missing from
// resident: the current room plus every open-exit neighbor.
func (m *Manager) RoomsToLoad(pos dungeon.Position, g *dungeon.Grid, resident map[string]*room.Room) []string {
	var ids []string
	for id := range keepSet(pos, g) {
		if _, ok := resident[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// RoomsToUnload returns resident room IDs that are outside the keep set and
// more than one grid step from the player.
func (m *Manager) RoomsToUnload(pos dungeon.Position, g *dungeon.Grid, resident map[string]*room.Room) []string {
	keep := keepSet(pos, g)
	var ids []string
	for id, r := range resident {
		if keep[id] {
			continue
		}
		if pos.ManhattanDistance(r.GridPos) > 1 {
			ids = append(ids, id)
		}
	}
	return ids
}

// PreloadAdjacent returns the grid positions of open-exit neighbors that are
// neither resident nor already queued, marking each as queued so a second
// call does not schedule duplicate generation.
func (m *Manager) PreloadAdjacent(pos dungeon.Position, g *dungeon.Grid, resident map[string]*room.Room) []dungeon.Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	var targets []dungeon.Position
	for _, n := range g.OpenNeighbors(pos) {
		id := n.RoomID()
		if _, ok := resident[id]; ok {
			continue
		}
		if m.queued[id] {
			continue
		}
		m.queued[id] = true
		targets = append(targets, n)
	}
	return targets
}

// MarkLoaded records a room as resident and releases its queue slot.
func (m *Manager) MarkLoaded(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded[id] = true
	delete(m.queued, id)
}

// MarkUnloaded records a room as no longer resident.
func (m *Manager) MarkUnloaded(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loaded, id)
}

// Unqueue releases a queue slot without marking the room loaded, for
// prefetches whose result was discarded.
func (m *Manager) Unqueue(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queued, id)
}

// IsLoaded reports whether the manager has recorded id as resident.
func (m *Manager) IsLoaded(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded[id]
}

// IsQueued reports whether id is awaiting background generation.
func (m *Manager) IsQueued(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queued[id]
}

// Reset clears all bookkeeping, for a new story seed.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = make(map[string]bool)
	m.queued = make(map[string]bool)
}
