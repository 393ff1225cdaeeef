package tilemap

import "github.com/emberhollow/delvegen/internal/dungeon"

// edgeBuffer returns the minimum pixel distance a remapped spawn keeps from
// any room edge.
func edgeBuffer(tileSize int) int {
	buffer := tileSize * 2
	if buffer < 60 {
		buffer = 60
	}
	return buffer
}

// SpawnForEntry returns where the player appears in this room given the
// direction they exited the previous room. Leaving east enters at the default
// left spawn; leaving west mirrors the spawn to the right side; vertical
// exits mirror the y coordinate. Mirrored coordinates are clamped to an edge
// buffer so the player never materializes inside a border wall.
func (m *TileMap) SpawnForEntry(exit dungeon.Direction) Point {
	buffer := edgeBuffer(m.TileSize)
	spawn := m.SpawnPoint

	switch exit {
	case dungeon.East:
		return spawn
	case dungeon.West:
		return Point{
			X: clamp(m.PixelWidth()-spawn.X, buffer, m.PixelWidth()-buffer),
			Y: spawn.Y,
		}
	case dungeon.North, dungeon.South:
		return Point{
			X: spawn.X,
			Y: clamp(m.PixelHeight()-spawn.Y, buffer, m.PixelHeight()-buffer),
		}
	default:
		return spawn
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
