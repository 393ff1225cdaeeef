// Package tilemap synthesizes the per-room 2D tile grid: a walkable corridor
// carved from the left edge to the right edge through biome-styled obstacles.
package tilemap

import "github.com/emberhollow/delvegen/internal/biome"

// Room tile grid dimensions. Every room uses the same footprint so spawn
// points line up across room transitions.
const (
	Width    = 25
	Height   = 20
	TileSize = 40
)

// TileKind is the closed set of terrain roles a tile can play. Walkability
// follows from the kind, never from string comparison.
type TileKind int

const (
	KindBase     TileKind = iota // Biome base terrain, not walkable
	KindPath                     // Carved corridor, walkable
	KindObstacle                 // Scattered obstacle, not walkable
	KindWall                     // Border wall of enclosed biomes, not walkable
)

// String returns the string representation of a TileKind
func (k TileKind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindPath:
		return "path"
	case KindObstacle:
		return "obstacle"
	case KindWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Walkable returns true if entities can occupy tiles of this kind.
func (k TileKind) Walkable() bool {
	return k == KindPath
}

// Tile is one cell of a room's terrain grid.
type Tile struct {
	Kind     TileKind `json:"kind" yaml:"kind"`
	Type     string   `json:"type" yaml:"type"` // biome tile name, e.g. "tree", "floor", "cave_wall"
	Walkable bool     `json:"walkable" yaml:"walkable"`
	Color    string   `json:"color" yaml:"color"`
	Emoji    string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

func tileFrom(kind TileKind, spec biome.TileSpec) Tile {
	return Tile{
		Kind:     kind,
		Type:     spec.Type,
		Walkable: kind.Walkable(),
		Color:    spec.Color,
		Emoji:    spec.Emoji,
	}
}

// Point is a pixel-space coordinate within a room.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// ManhattanDistance returns the pixel-space Manhattan distance to another point.
func (p Point) ManhattanDistance(o Point) int {
	dx, dy := p.X-o.X, p.Y-o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// TileMap is a room's synthesized terrain. Immutable once built; regenerating
// a room produces a new TileMap rather than mutating this one.
type TileMap struct {
	Width      int               `json:"width" yaml:"width"`
	Height     int               `json:"height" yaml:"height"`
	TileSize   int               `json:"tile_size" yaml:"tile_size"`
	Tiles      [][]Tile          `json:"tiles" yaml:"tiles"` // indexed [y][x]
	Biome      string            `json:"biome" yaml:"biome"`
	Definition *biome.Definition `json:"-" yaml:"definition,omitempty"`
	SpawnPoint Point             `json:"spawn_point" yaml:"spawn_point"` // left edge, vertical center, pixel space
	PathPoints []Point           `json:"path_points" yaml:"path_points"` // <=15 samples along the raw corridor, pixel space
}

// TileAt returns the tile at a tile-space coordinate, or nil out of bounds.
func (m *TileMap) TileAt(x, y int) *Tile {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return nil
	}
	return &m.Tiles[y][x]
}

// TileAtPixel returns the tile containing a pixel-space point.
func (m *TileMap) TileAtPixel(p Point) *Tile {
	return m.TileAt(p.X/m.TileSize, p.Y/m.TileSize)
}

// PixelWidth returns the room width in pixels.
func (m *TileMap) PixelWidth() int {
	return m.Width * m.TileSize
}

// PixelHeight returns the room height in pixels.
func (m *TileMap) PixelHeight() int {
	return m.Height * m.TileSize
}
