// Package biome defines the visual/thematic tile palettes applied to room
// tile maps, and a registry that resolves biome keys to definitions. Unknown
// keys can be filled in by an injected generator (the narrative AI layer)
// and are persisted for reuse.
package biome

import "strings"

// TileSpec describes one terrain tile of a biome palette.
type TileSpec struct {
	Type  string `yaml:"type"`
	Color string `yaml:"color"`
	Emoji string `yaml:"emoji,omitempty"`
}

// Definition is a named palette: base (non-walkable) terrain, path (walkable)
// terrain, and a set of obstacle tiles scattered off the corridor.
type Definition struct {
	Name          string     `yaml:"name"`
	BaseTile      TileSpec   `yaml:"base_tile"`
	PathTile      TileSpec   `yaml:"path_tile"`
	ObstacleTiles []TileSpec `yaml:"obstacle_tiles"`
	Atmosphere    string     `yaml:"atmosphere,omitempty"`
}

// Enclosed returns true if rooms of this biome get border walls. Dungeon-like
// biomes are enclosed, as is any biome whose obstacle set includes a wall tile.
func (d *Definition) Enclosed() bool {
	if d.Name == "dungeon" || d.Name == "cave" {
		return true
	}
	return d.WallTile() != nil
}

// WallTile returns the wall-like obstacle tile, if the biome has one.
func (d *Definition) WallTile() *TileSpec {
	for i := range d.ObstacleTiles {
		if strings.Contains(d.ObstacleTiles[i].Type, "wall") {
			return &d.ObstacleTiles[i]
		}
	}
	return nil
}

// ObstacleChance returns the per-cell obstacle probability for this biome.
// Enclosed biomes are sparser so their corridors read as carved passages.
func (d *Definition) ObstacleChance() float64 {
	if d.Enclosed() {
		return 0.10
	}
	return 0.20
}

// legacy holds the hardcoded fallback biomes used when no dynamic definition
// is supplied by the narrative layer.
var legacy = map[string]*Definition{
	"forest": {
		Name:     "forest",
		BaseTile: TileSpec{Type: "tree", Color: "#1b4d2e", Emoji: "🌲"},
		PathTile: TileSpec{Type: "grass", Color: "#4a7c3f"},
		ObstacleTiles: []TileSpec{
			{Type: "rock", Color: "#6b6b6b", Emoji: "🪨"},
			{Type: "bush", Color: "#2e6b3e", Emoji: "🌿"},
		},
		Atmosphere: "a dense wood humming with unseen life",
	},
	"plains": {
		Name:     "plains",
		BaseTile: TileSpec{Type: "tall_grass", Color: "#7ba05b", Emoji: "🌾"},
		PathTile: TileSpec{Type: "dirt", Color: "#8b7355"},
		ObstacleTiles: []TileSpec{
			{Type: "boulder", Color: "#7d7d7d", Emoji: "🪨"},
		},
		Atmosphere: "open grassland under a wide sky",
	},
	"desert": {
		Name:     "desert",
		BaseTile: TileSpec{Type: "dune", Color: "#d4b483", Emoji: "🏜️"},
		PathTile: TileSpec{Type: "sand", Color: "#e8d5a3"},
		ObstacleTiles: []TileSpec{
			{Type: "cactus", Color: "#4f7942", Emoji: "🌵"},
			{Type: "bones", Color: "#e5e0d5", Emoji: "🦴"},
		},
		Atmosphere: "shimmering heat over endless sand",
	},
	"dungeon": {
		Name:     "dungeon",
		BaseTile: TileSpec{Type: "void", Color: "#141414"},
		PathTile: TileSpec{Type: "floor", Color: "#5a5248"},
		ObstacleTiles: []TileSpec{
			{Type: "wall", Color: "#3a352e", Emoji: "🧱"},
			{Type: "rubble", Color: "#4d463c"},
		},
		Atmosphere: "worked stone, torchlight, and old dread",
	},
	"cave": {
		Name:     "cave",
		BaseTile: TileSpec{Type: "darkness", Color: "#0d0d12"},
		PathTile: TileSpec{Type: "cave_floor", Color: "#4e4a57"},
		ObstacleTiles: []TileSpec{
			{Type: "stalagmite", Color: "#6e6878"},
			{Type: "cave_wall", Color: "#2b2833", Emoji: "🪨"},
		},
		Atmosphere: "dripping water echoing in the dark",
	},
}

// Legacy returns the hardcoded definition for a key, or the dungeon fallback
// if the key is unknown.
func Legacy(key string) *Definition {
	if def, ok := legacy[key]; ok {
		return def
	}
	return legacy["dungeon"]
}

// LegacyKeys returns the names of all hardcoded biomes in a stable order.
func LegacyKeys() []string {
	return []string{"forest", "plains", "desert", "dungeon", "cave"}
}
