package populate

import (
	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/rng"
	"github.com/emberhollow/delvegen/internal/tilemap"
)

const (
	// populateStride offsets the population stream from the tile-map stream
	// so both stay deterministic but independent.
	populateStride = 31
	roomSeedStride = 1000

	spawnClearance  = 150 // pixel Manhattan distance kept enemy-free around spawn
	placementJitter = 30  // max pixel offset applied to path-point placement
)

// Populate places all interactive objects for a room. Counts and difficulty
// scale with mapNumber; placement follows the tile map's path points. The
// result is deterministic for a given (storySeed, roomNumber) and total: a
// room with too few eligible path points simply receives fewer objects.
func Populate(storySeed int64, roomNumber int, roomID string, roomType dungeon.RoomType, m *tilemap.TileMap, mapNumber int) []*Object {
	r := rng.New(storySeed + int64(roomNumber)*roomSeedStride + populateStride)

	var objects []*Object
	objects = append(objects, placeEnemies(r, roomID, roomType, m, mapNumber)...)
	objects = append(objects, placeItems(r, roomID, roomType, m, mapNumber)...)
	objects = append(objects, placeSpecials(r, roomID, roomType, m, mapNumber)...)
	return objects
}

// enemyCount returns how many enemies a room gets, or 0 for enemy-free types.
// Boss rooms get a dedicated boss object instead of generic enemies.
func enemyCount(r *rng.Seeded, roomType dungeon.RoomType, mapNumber int) int {
	var count int
	switch roomType {
	case dungeon.RoomTypeStart, dungeon.RoomTypeSafe, dungeon.RoomTypeBoss:
		return 0
	case dungeon.RoomTypeReward:
		count = r.NextInt(1, 2)
	case dungeon.RoomTypePuzzle:
		count = r.NextInt(1, 3)
	case dungeon.RoomTypeCombat:
		count = r.NextInt(2+mapNumber, 4+mapNumber*2)
	default:
		return 0
	}
	if count > maxEnemiesPerRoom {
		count = maxEnemiesPerRoom
	}
	return count
}

func placeEnemies(r *rng.Seeded, roomID string, roomType dungeon.RoomType, m *tilemap.TileMap, mapNumber int) []*Object {
	count := enemyCount(r, roomType, mapNumber)
	if count == 0 {
		return nil
	}

	// Keep the entry area clear so the player never spawns into a fight.
	var eligible []tilemap.Point
	for _, p := range m.PathPoints {
		if p.ManhattanDistance(m.SpawnPoint) > spawnClearance {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	if count > len(eligible) {
		count = len(eligible)
	}

	stride := len(eligible) / count
	if stride == 0 {
		stride = 1
	}

	enemies := make([]*Object, 0, count)
	for i := 0; i < count; i++ {
		idx := i * stride
		if idx >= len(eligible) {
			idx = len(eligible) - 1
		}
		pos := jitter(r, eligible[idx])

		enemy := &Object{
			ID:              objectID(roomID, KindEnemy, i),
			Position:        pos,
			Kind:            KindEnemy,
			Sprite:          "👾",
			InteractionText: "A hostile creature blocks the path.",
			EnemyLevel:      EnemyLevel(mapNumber, r),
		}
		if r.Chance(DropChance(mapNumber)) {
			enemy.ItemDrop = RollItem(mapNumber, r)
		}
		enemies = append(enemies, enemy)
	}
	return enemies
}

// itemCount returns how many loose items a room type gets.
func itemCount(r *rng.Seeded, roomType dungeon.RoomType) int {
	switch roomType {
	case dungeon.RoomTypeReward:
		return r.NextInt(4, 6)
	case dungeon.RoomTypePuzzle:
		return r.NextInt(2, 3)
	case dungeon.RoomTypeCombat:
		return r.NextInt(1, 2)
	default:
		return 0
	}
}

func placeItems(r *rng.Seeded, roomID string, roomType dungeon.RoomType, m *tilemap.TileMap, mapNumber int) []*Object {
	count := itemCount(r, roomType)
	if count == 0 || len(m.PathPoints) == 0 {
		return nil
	}

	items := make([]*Object, 0, count)
	for i := 0; i < count; i++ {
		point := m.PathPoints[r.NextInt(0, len(m.PathPoints)-1)]
		item := RollItem(mapNumber, r)
		items = append(items, &Object{
			ID:              objectID(roomID, KindItem, i),
			Position:        jitter(r, point),
			Kind:            KindItem,
			Sprite:          "💎",
			InteractionText: "You found a " + item.Name + ".",
			ItemDrop:        item,
		})
	}
	return items
}

// placeSpecials adds the one-off objects each room type carries.
func placeSpecials(r *rng.Seeded, roomID string, roomType dungeon.RoomType, m *tilemap.TileMap, mapNumber int) []*Object {
	switch roomType {
	case dungeon.RoomTypeStart:
		return []*Object{{
			ID:              objectID(roomID, KindNPC, 0),
			Position:        tilemap.Point{X: m.SpawnPoint.X + m.TileSize*2, Y: m.SpawnPoint.Y},
			Kind:            KindNPC,
			Sprite:          "🧙",
			InteractionText: "An old guide nods at you. \"The path east leads deeper in.\"",
		}}

	case dungeon.RoomTypeSafe:
		return []*Object{
			{
				ID:              objectID(roomID, KindShrine, 0),
				Position:        pathMidpoint(m),
				Kind:            KindShrine,
				Sprite:          "⛲",
				InteractionText: "A healing shrine restores you fully.",
			},
			{
				ID:              objectID(roomID, KindNPC, 0),
				Position:        jitter(r, pathMidpoint(m)),
				Kind:            KindNPC,
				Sprite:          "🧝",
				InteractionText: "A friendly traveler rests here.",
			},
		}

	case dungeon.RoomTypePuzzle:
		return []*Object{{
			ID:              objectID(roomID, KindPuzzleElement, 0),
			Position:        pathMidpoint(m),
			Kind:            KindPuzzleElement,
			Sprite:          "🗿",
			InteractionText: "Ancient mechanisms wait for the right touch.",
			PuzzleData: &PuzzleData{
				Hint:   "The answer lies along the path you walked.",
				Reward: RollItem(mapNumber, r),
			},
		}}

	case dungeon.RoomTypeBoss:
		return []*Object{{
			ID:              objectID(roomID, KindBoss, 0),
			Position:        pathMidpoint(m),
			Kind:            KindBoss,
			Sprite:          "🐲",
			InteractionText: "Something enormous stirs in the gloom.",
			EnemyLevel:      BossLevel(mapNumber),
			ItemDrop:        LegendaryItem(mapNumber, r),
		}}

	default:
		return nil
	}
}

// pathMidpoint returns the middle of the corridor, falling back to the spawn
// point for degenerate maps.
func pathMidpoint(m *tilemap.TileMap) tilemap.Point {
	if len(m.PathPoints) == 0 {
		return m.SpawnPoint
	}
	return m.PathPoints[len(m.PathPoints)/2]
}

// jitter shifts a point by up to placementJitter pixels on each axis,
// clamped to the room bounds.
func jitter(r *rng.Seeded, p tilemap.Point) tilemap.Point {
	out := tilemap.Point{
		X: p.X + r.NextInt(-placementJitter, placementJitter),
		Y: p.Y + r.NextInt(-placementJitter, placementJitter),
	}
	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	return out
}
