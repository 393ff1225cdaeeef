// Package populate places the interactive objects of a room: enemies, items,
// and the one-off special objects each room type carries. Placement follows
// the room's path points so nothing spawns off the walkable corridor.
package populate

import (
	"fmt"

	"github.com/emberhollow/delvegen/internal/tilemap"
)

// ObjectKind is the closed set of interactive entity categories.
type ObjectKind int

const (
	KindEnemy ObjectKind = iota
	KindNPC
	KindItem
	KindShrine
	KindPuzzleElement
	KindBoss
)

// String returns the string representation of an ObjectKind
func (k ObjectKind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindNPC:
		return "npc"
	case KindItem:
		return "item"
	case KindShrine:
		return "shrine"
	case KindPuzzleElement:
		return "puzzle_element"
	case KindBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Item is a stat-bearing drop or pickup. Power scales with the map number.
type Item struct {
	Name   string `yaml:"name"`
	Stat   string `yaml:"stat"` // "health", "mana", "damage", "defense"
	Power  int    `yaml:"power"`
	Rarity string `yaml:"rarity"` // "common" or "legendary"
}

// PuzzleData carries the reward and hint attached to a puzzle element.
type PuzzleData struct {
	Hint   string `yaml:"hint"`
	Reward *Item  `yaml:"reward"`
}

// Object is an interactive entity in a room. Its placement is fixed at
// generation time; only interaction state mutates during play.
type Object struct {
	ID                 string        `yaml:"id"`
	Position           tilemap.Point `yaml:"position"`
	Kind               ObjectKind    `yaml:"kind"`
	Sprite             string        `yaml:"sprite"` // fallback glyph before cosmetic enhancement
	InteractionText    string        `yaml:"interaction_text"`
	HasInteracted      bool          `yaml:"has_interacted"`
	EnemyLevel         int           `yaml:"enemy_level,omitempty"`
	ItemDrop           *Item         `yaml:"item_drop,omitempty"`
	PuzzleData         *PuzzleData   `yaml:"puzzle_data,omitempty"`
	InteractionHistory []string      `yaml:"interaction_history,omitempty"`
}

// Interact marks the object as interacted and appends to its history.
func (o *Object) Interact(entry string) {
	o.HasInteracted = true
	o.InteractionHistory = append(o.InteractionHistory, entry)
}

// objectID builds a deterministic identifier. Objects must be reproducible
// from the seed alone, so no random IDs here.
func objectID(roomID string, kind ObjectKind, n int) string {
	return fmt.Sprintf("%s_%s_%d", roomID, kind, n)
}
