package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/emberhollow/delvegen/internal/cache"
	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/logger"
	"github.com/emberhollow/delvegen/internal/narrative"
	"github.com/emberhollow/delvegen/internal/room"
	"github.com/emberhollow/delvegen/internal/tilemap"
)

// Session is one player's playthrough: a dungeon grid, a generation service,
// the live resident room set, and the caches that feed it.
type Session struct {
	ID string

	grid       *dungeon.Grid
	svc        *room.Service
	manager    *cache.Manager
	persistent *cache.PersistentRoomCache

	mu        sync.Mutex
	resident  map[string]*room.Room
	pos       dungeon.Position
	mapNumber int
	epoch     int
	started   bool
}

// newSession creates an unstarted session. Start binds it to a seed.
func newSession(persistent *cache.PersistentRoomCache) *Session {
	return &Session{
		ID:         uuid.NewString(),
		manager:    cache.NewManager(),
		persistent: persistent,
		resident:   make(map[string]*room.Room),
	}
}

// Start binds the session to a story seed, builds the dungeon topology, and
// generates the start room.
func (s *Session) Start(ctx context.Context, srv *Server, seed int64, story string, mode narrative.Mode, mapNumber int) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grid = dungeon.Build(seed)
	s.svc = room.NewService(ctx, seed, story, mode, s.grid, srv.biomes, srv.narrative, logger.Logger())
	if srv.enhancer != nil {
		s.svc.SetEnhancer(srv.enhancer)
	}
	s.manager.Reset()
	s.persistent.Initialize(seed)
	s.resident = make(map[string]*room.Room)
	s.pos = s.grid.Start
	s.mapNumber = mapNumber
	s.epoch++
	s.started = true

	r, err := s.acquireLocked(ctx, s.pos)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Move advances the player through an open exit and returns the entered room
// plus the spawn point remapped for the entry direction.
func (s *Session) Move(ctx context.Context, dir dungeon.Direction) (*room.Room, tilemap.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, tilemap.Point{}, fmt.Errorf("session not started")
	}

	cell := s.grid.Cell(s.pos)
	if cell == nil || !cell.HasExit(dir) {
		return nil, tilemap.Point{}, fmt.Errorf("no %s exit from %s", dir, s.pos.RoomID())
	}
	next := s.pos.Step(dir)
	if !s.grid.InBounds(next) {
		return nil, tilemap.Point{}, fmt.Errorf("no %s exit from %s", dir, s.pos.RoomID())
	}

	s.pos = next

	r, err := s.acquireLocked(ctx, s.pos)
	if err != nil {
		return nil, tilemap.Point{}, err
	}

	s.evictLocked()

	return r, r.TileMap.SpawnForEntry(dir), nil
}

// Interact resolves an object interaction in the current room.
func (s *Session) Interact(objectID string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, fmt.Errorf("session not started")
	}
	r := s.resident[s.pos.RoomID()]
	if r == nil {
		return nil, fmt.Errorf("current room not resident")
	}
	o := r.FindObject(objectID)
	if o == nil {
		return nil, fmt.Errorf("no object %s in room %s", objectID, r.ID)
	}
	o.Interact(o.InteractionText)
	return r, nil
}

// CurrentRoom returns the resident room the player occupies, or nil.
func (s *Session) CurrentRoom() *room.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resident[s.pos.RoomID()]
}

// OpenExits lists the exit directions of the current cell, for the client UI.
func (s *Session) OpenExits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openExitsLocked()
}

func (s *Session) openExitsLocked() []string {
	cell := s.grid.Cell(s.pos)
	if cell == nil {
		return nil
	}
	var exits []string
	for _, d := range dungeon.AllDirections() {
		if cell.HasExit(d) {
			exits = append(exits, d.String())
		}
	}
	return exits
}

// Prefetch generates not-yet-resident open-exit neighbors in the background.
// Results land in the resident map and the persistent cache; a prefetch the
// player never reaches is still a warm cache entry.
//
// The service, map number, and epoch are snapshotted under the lock: a later
// restart swaps the service and rebinds the persistent cache to a new seed,
// and results from a stale epoch must be dropped rather than written into the
// new playthrough's state.
func (s *Session) Prefetch(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	targets := s.manager.PreloadAdjacent(s.pos, s.grid, s.resident)
	svc := s.svc
	mapNumber := s.mapNumber
	epoch := s.epoch
	s.mu.Unlock()

	for _, target := range targets {
		go func(target dungeon.Position) {
			r, err := svc.Generate(ctx, target, mapNumber)
			if err != nil {
				logger.Warning("prefetch failed", "session", s.ID, "room", target.RoomID(), "error", err)
				s.mu.Lock()
				if s.epoch == epoch {
					s.manager.Unqueue(target.RoomID())
				}
				s.mu.Unlock()
				return
			}
			s.mu.Lock()
			if s.epoch != epoch {
				s.mu.Unlock()
				return
			}
			s.resident[r.ID] = r
			if err := s.persistent.SaveRoom(r); err != nil {
				logger.Warning("room not persisted", "session", s.ID, "room", r.ID, "error", err)
			}
			s.manager.MarkLoaded(r.ID)
			s.mu.Unlock()
		}(target)
	}
}

// acquireLocked returns the room at pos, from the resident set, the
// persistent cache, or fresh generation. Caller holds s.mu. The room service
// coalesces duplicate in-flight generations, so a move and a prefetch racing
// for the same room share one result.
func (s *Session) acquireLocked(ctx context.Context, pos dungeon.Position) (*room.Room, error) {
	id := pos.RoomID()
	if r := s.resident[id]; r != nil {
		return r, nil
	}
	if r := s.persistent.GetRoom(id); r != nil {
		s.resident[id] = r
		s.manager.MarkLoaded(id)
		return r, nil
	}

	r, err := s.svc.Generate(ctx, pos, s.mapNumber)
	if err != nil {
		return nil, err
	}
	if err := s.persistent.SaveRoom(r); err != nil {
		logger.Warning("room not persisted", "session", s.ID, "room", r.ID, "error", err)
	}
	s.resident[id] = r
	s.manager.MarkLoaded(id)
	return r, nil
}

// evictLocked drops resident rooms outside the keep radius. Caller holds s.mu.
func (s *Session) evictLocked() {
	for _, id := range s.manager.RoomsToUnload(s.pos, s.grid, s.resident) {
		delete(s.resident, id)
		s.manager.MarkUnloaded(id)
		logger.Debug("room evicted from live set", "session", s.ID, "room", id)
	}
}
