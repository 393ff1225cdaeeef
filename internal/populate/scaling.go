package populate

import "github.com/emberhollow/delvegen/internal/rng"

// Scaling contains difficulty curves keyed by map number.

const (
	maxEnemiesPerRoom = 8
	baseDropChance    = 0.3
	dropChancePerMap  = 0.1
	maxDropChance     = 0.95
)

// EnemyLevel returns the level for a generic enemy on a given map.
func EnemyLevel(mapNumber int, r *rng.Seeded) int {
	level := mapNumber*2 + r.NextInt(0, 2)
	if level < 1 {
		level = 1
	}
	return level
}

// BossLevel returns the level for a boss on a given map.
func BossLevel(mapNumber int) int {
	return 10 + mapNumber*5
}

// DropChance returns the probability a generic enemy drops an item.
func DropChance(mapNumber int) float64 {
	chance := baseDropChance + float64(mapNumber)*dropChancePerMap
	if chance > maxDropChance {
		chance = maxDropChance
	}
	return chance
}

// StatBonus returns the magnitude of a charm or ring bonus on a given map.
func StatBonus(mapNumber int) int {
	return 1 + mapNumber
}
