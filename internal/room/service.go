package room

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/emberhollow/delvegen/internal/biome"
	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/narrative"
	"github.com/emberhollow/delvegen/internal/populate"
	"github.com/emberhollow/delvegen/internal/tilemap"
)

// Enhancer upgrades a generated room with cosmetic assets (scene images,
// richer sprites). Enhancement runs after the room is already playable and
// its failure must never block or invalidate the room.
type Enhancer interface {
	Enhance(ctx context.Context, r *Room) error
}

// inflight tracks a single in-progress generation so concurrent requests
// for the same room ID share one result.
type inflight struct {
	done chan struct{}
	room *Room
	err  error
}

// Service generates rooms for one story seed. Generation is deterministic:
// the same seed and room position always produce the same layout, objects,
// and biome, so a regenerated room is interchangeable with a cached one.
type Service struct {
	storySeed   int64
	grid        *dungeon.Grid
	biomes      *biome.Registry
	story       narrative.Service
	enhancer    Enhancer
	progression []string
	log         *slog.Logger

	mu       sync.Mutex
	inflight map[string]*inflight
}

// NewService builds the generation service, resolving the biome progression
// up front. A narrative failure degrades to the deterministic fallback
// progression rather than failing construction.
func NewService(ctx context.Context, storySeed int64, story string, mode narrative.Mode, grid *dungeon.Grid, biomes *biome.Registry, svc narrative.Service, log *slog.Logger) *Service {
	if svc == nil {
		svc = narrative.NewFallback(storySeed)
	}
	if log == nil {
		log = slog.Default()
	}
	prog, err := svc.BiomeProgression(ctx, story, mode, dungeon.GridSize*dungeon.GridSize)
	if err != nil || len(prog) == 0 {
		if err != nil {
			log.Warn("biome progression failed, using fallback", "error", err)
		}
		prog, _ = narrative.NewFallback(storySeed).BiomeProgression(ctx, story, mode, dungeon.GridSize*dungeon.GridSize)
	}
	return &Service{
		storySeed:   storySeed,
		grid:        grid,
		biomes:      biomes,
		story:       svc,
		progression: prog,
		log:         log,
		inflight:    make(map[string]*inflight),
	}
}

// SetEnhancer installs the cosmetic enhancer. May be nil to disable.
func (s *Service) SetEnhancer(e Enhancer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enhancer = e
}

// StorySeed returns the seed this service generates from.
func (s *Service) StorySeed() int64 { return s.storySeed }

// Grid returns the dungeon layout backing this service.
func (s *Service) Grid() *dungeon.Grid { return s.grid }

// BiomeFor returns the biome key for a room number.
func (s *Service) BiomeFor(roomNumber int) string {
	if len(s.progression) == 0 {
		return "dungeon"
	}
	if roomNumber < 0 {
		roomNumber = -roomNumber
	}
	return s.progression[roomNumber%len(s.progression)]
}

// Generate produces the room at pos, coalescing concurrent requests for the
// same room ID into a single generation. The room number is derived from the
// grid position, never from generation order, so a room regenerated after
// eviction is identical to the one it replaces. The returned room is complete
// and playable; cosmetic enhancement runs in the background.
func (s *Service) Generate(ctx context.Context, pos dungeon.Position, mapNumber int) (*Room, error) {
	roomID := pos.RoomID()

	s.mu.Lock()
	if fl, ok := s.inflight[roomID]; ok {
		s.mu.Unlock()
		select {
		case <-fl.done:
			return fl.room, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fl := &inflight{done: make(chan struct{})}
	s.inflight[roomID] = fl
	s.mu.Unlock()

	fl.room, fl.err = s.generate(ctx, pos, mapNumber)
	close(fl.done)

	s.mu.Lock()
	delete(s.inflight, roomID)
	s.mu.Unlock()

	return fl.room, fl.err
}

func (s *Service) generate(ctx context.Context, pos dungeon.Position, mapNumber int) (*Room, error) {
	cell := s.grid.Cell(pos)
	if cell == nil {
		return nil, fmt.Errorf("position %d,%d outside dungeon grid", pos.GridX, pos.GridY)
	}
	roomID := pos.RoomID()
	roomNumber := pos.Index()

	biomeKey := s.BiomeFor(roomNumber)
	def, err := s.biomes.Resolve(ctx, biomeKey)
	if err != nil {
		s.log.Warn("biome resolve degraded to fallback", "biome", biomeKey, "room", roomID, "error", err)
	}

	tm := tilemap.Synthesize(s.storySeed, roomNumber, def)
	objects := populate.Populate(s.storySeed, roomNumber, roomID, cell.Type, tm, mapNumber)

	desc, err := s.story.RoomDescription(ctx, biomeKey, cell.Type, roomNumber)
	if err != nil {
		s.log.Warn("room description degraded to fallback", "room", roomID, "error", err)
		desc, _ = narrative.NewFallback(s.storySeed).RoomDescription(ctx, biomeKey, cell.Type, roomNumber)
	}

	r := &Room{
		ID:          roomID,
		RoomNumber:  roomNumber,
		MapNumber:   mapNumber,
		GridPos:     pos,
		Type:        cell.Type.String(),
		Biome:       biomeKey,
		Description: desc,
		Objects:     objects,
		TileMap:     tm,
		GeneratedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	enh := s.enhancer
	s.mu.Unlock()
	if enh != nil {
		go func() {
			ectx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := enh.Enhance(ectx, r); err != nil {
				s.log.Debug("room enhancement skipped", "room", r.ID, "error", err)
			}
		}()
	}

	return r, nil
}

// SpawnFor returns the player spawn point for a room when entering through
// the given exit of the previous room.
func SpawnFor(r *Room, entered dungeon.Direction) tilemap.Point {
	return r.TileMap.SpawnForEntry(entered)
}
