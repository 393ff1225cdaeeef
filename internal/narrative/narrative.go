// Package narrative defines the boundary to the story-generation AI service.
// The core only consumes its outputs: an ordered biome progression and a
// description string per room. The Fallback implementation keeps the game
// playable when no AI collaborator is configured or reachable.
package narrative

import (
	"context"
	"fmt"

	"github.com/emberhollow/delvegen/internal/biome"
	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/rng"
)

// Mode selects how the story service treats the player's source text.
type Mode int

const (
	ModeInspiration Mode = iota
	ModeRecreation
	ModeContinuation
)

// String returns the string representation of a Mode
func (m Mode) String() string {
	switch m {
	case ModeInspiration:
		return "inspiration"
	case ModeRecreation:
		return "recreation"
	case ModeContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "inspiration":
		return ModeInspiration, true
	case "recreation":
		return ModeRecreation, true
	case "continuation":
		return ModeContinuation, true
	default:
		return ModeInspiration, false
	}
}

// Service is the contract the story AI collaborator fulfills.
type Service interface {
	// BiomeProgression returns one biome key per room index.
	BiomeProgression(ctx context.Context, story string, mode Mode, roomCount int) ([]string, error)

	// RoomDescription returns the narrative text for one room.
	RoomDescription(ctx context.Context, biomeKey string, roomType dungeon.RoomType, roomNumber int) (string, error)
}

// Fallback is a deterministic Service that needs no upstream calls. It walks
// the legacy biomes in a seed-dependent order and produces template text, so
// rooms stay playable when the AI layer fails outright.
type Fallback struct {
	seed int64
}

// NewFallback creates a fallback narrative service for a story seed.
func NewFallback(seed int64) *Fallback {
	return &Fallback{seed: seed}
}

// BiomeProgression cycles a seed-shuffled ordering of the legacy biomes.
func (f *Fallback) BiomeProgression(ctx context.Context, story string, mode Mode, roomCount int) ([]string, error) {
	keys := rng.Shuffle(rng.New(f.seed), biome.LegacyKeys())
	progression := make([]string, roomCount)
	for i := 0; i < roomCount; i++ {
		progression[i] = keys[i%len(keys)]
	}
	return progression, nil
}

// RoomDescription builds template text from the biome atmosphere.
func (f *Fallback) RoomDescription(ctx context.Context, biomeKey string, roomType dungeon.RoomType, roomNumber int) (string, error) {
	def := biome.Legacy(biomeKey)

	switch roomType {
	case dungeon.RoomTypeStart:
		return fmt.Sprintf("Your journey begins amid %s.", def.Atmosphere), nil
	case dungeon.RoomTypeBoss:
		return fmt.Sprintf("The air turns heavy in %s. Something waits ahead.", def.Atmosphere), nil
	case dungeon.RoomTypeSafe:
		return fmt.Sprintf("A quiet refuge within %s. You can rest here.", def.Atmosphere), nil
	case dungeon.RoomTypeReward:
		return fmt.Sprintf("A hidden pocket of %s, glittering with forgotten spoils.", def.Atmosphere), nil
	case dungeon.RoomTypePuzzle:
		return fmt.Sprintf("Strange patterns break the monotony of %s.", def.Atmosphere), nil
	default:
		return fmt.Sprintf("You press on through %s.", def.Atmosphere), nil
	}
}
