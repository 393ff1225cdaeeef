// Package room assembles fully playable rooms from the generation pipeline:
// dungeon cell -> tile map -> populated objects -> narrative description.
// It also owns the request-coalescing registry that prevents duplicate
// concurrent generation of the same room.
package room

import (
	"sync"
	"time"

	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/populate"
	"github.com/emberhollow/delvegen/internal/tilemap"
)

// Room is the unit managed by the caches: a synthesized tile map, its
// interactive objects, and narrative dressing. A room is playable with its
// fallback glyphs before any cosmetic enhancement arrives.
type Room struct {
	ID          string             `yaml:"id"`
	RoomNumber  int                `yaml:"room_number"`
	MapNumber   int                `yaml:"map_number"`
	GridPos     dungeon.Position   `yaml:"grid_pos"`
	Type        string             `yaml:"type"` // dungeon.RoomType string form
	Biome       string             `yaml:"biome"`
	Description string             `yaml:"description"`
	Objects     []*populate.Object `yaml:"objects"`
	TileMap     *tilemap.TileMap   `yaml:"tile_map"`
	SceneImage  string             `yaml:"scene_image,omitempty"`
	GeneratedAt time.Time          `yaml:"generated_at"`

	mu sync.RWMutex
}

// RoomType returns the parsed room type.
func (r *Room) RoomType() dungeon.RoomType {
	t, _ := dungeon.ParseRoomType(r.Type)
	return t
}

// SetSceneImage attaches the cosmetic scene image once enhancement finishes.
func (r *Room) SetSceneImage(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SceneImage = url
}

// GetSceneImage returns the scene image URL, empty until enhancement lands.
func (r *Room) GetSceneImage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.SceneImage
}

// FindObject returns the object with the given ID, or nil.
func (r *Room) FindObject(id string) *populate.Object {
	for _, o := range r.Objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}
