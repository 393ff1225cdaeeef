package populate

import "github.com/emberhollow/delvegen/internal/rng"

// RollItem draws from the shared item table, with magnitudes that grow with
// the map number.
func RollItem(mapNumber int, r *rng.Seeded) *Item {
	switch r.NextInt(0, 3) {
	case 0:
		return &Item{Name: "health potion", Stat: "health", Power: 20 + mapNumber*10, Rarity: "common"}
	case 1:
		return &Item{Name: "mana potion", Stat: "mana", Power: 15 + mapNumber*8, Rarity: "common"}
	case 2:
		return &Item{Name: "damage charm", Stat: "damage", Power: StatBonus(mapNumber), Rarity: "common"}
	default:
		return &Item{Name: "defense ring", Stat: "defense", Power: StatBonus(mapNumber), Rarity: "common"}
	}
}

// LegendaryItem returns the guaranteed boss drop for a map.
func LegendaryItem(mapNumber int, r *rng.Seeded) *Item {
	base := RollItem(mapNumber, r)
	base.Name = "legendary " + base.Name
	base.Power *= 3
	base.Rarity = "legendary"
	return base
}
