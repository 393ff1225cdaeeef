package tilemap

import (
	"github.com/emberhollow/delvegen/internal/biome"
	"github.com/emberhollow/delvegen/internal/rng"
)

const (
	pathGoalBias      = 0.7  // corridor walk: chance of a goal-reducing step
	detourChance      = 0.2  // chance of a one-tile lateral detour per step
	nearPathChance    = 0.3  // chance an obstacle may sit adjacent to the path
	maxPathPoints     = 15   // cap on down-sampled corridor points
	roomSeedStride    = 1000 // per-room seed offset multiplier
	maxCarveSteps     = Width * Height * 4
)

type tilePos struct{ x, y int }

// Synthesize builds the tile map for one room. The layout depends only on
// (storySeed, roomNumber, definition): each room gets a fresh generator
// seeded independently of generation order, so prefetched and regenerated
// rooms are byte-identical.
func Synthesize(storySeed int64, roomNumber int, def *biome.Definition) *TileMap {
	if def == nil {
		def = biome.Legacy("dungeon")
	}
	r := rng.New(storySeed + int64(roomNumber)*roomSeedStride)

	raw := carvePath(r)
	walkable := expandPath(raw)

	m := &TileMap{
		Width:      Width,
		Height:     Height,
		TileSize:   TileSize,
		Biome:      def.Name,
		Definition: def,
		SpawnPoint: Point{
			X: 2 * TileSize,
			Y: (Height/2)*TileSize + TileSize/2,
		},
	}

	m.Tiles = make([][]Tile, Height)
	for y := 0; y < Height; y++ {
		m.Tiles[y] = make([]Tile, Width)
		for x := 0; x < Width; x++ {
			if walkable[tilePos{x, y}] {
				m.Tiles[y][x] = tileFrom(KindPath, def.PathTile)
			} else {
				m.Tiles[y][x] = tileFrom(KindBase, def.BaseTile)
			}
		}
	}

	scatterObstacles(m, r, def, walkable)
	if def.Enclosed() {
		buildBorders(m, def, walkable)
	}

	m.PathPoints = samplePathPoints(raw)
	return m
}

// carvePath walks from the left edge to the right edge at vertical center,
// biased toward the goal with occasional lateral detours for a natural look.
func carvePath(r *rng.Seeded) []tilePos {
	midY := Height / 2
	goal := tilePos{Width - 1, midY}

	// The first tiles are forced eastward so the spawn tile at column 2 is
	// always on the corridor.
	path := []tilePos{{0, midY}, {1, midY}, {2, midY}}
	current := path[len(path)-1]
	prev := path[len(path)-2]

	for current.x < Width-1 {
		if len(path) >= maxCarveSteps {
			// Walk guard: march straight east to the edge.
			for current.x < Width-1 {
				current = tilePos{current.x + 1, current.y}
				path = append(path, current)
			}
			break
		}

		// Occasional one-tile detour perpendicular to travel.
		if r.Chance(detourChance) {
			if detour, ok := lateralStep(r, current); ok && detour != prev {
				prev = current
				current = detour
				path = append(path, current)
				continue
			}
		}

		next, ok := pickPathStep(r, current, prev, goal)
		if !ok {
			break
		}
		prev = current
		current = next
		path = append(path, current)
	}

	return path
}

func lateralStep(r *rng.Seeded, p tilePos) (tilePos, bool) {
	dy := 1
	if r.Chance(0.5) {
		dy = -1
	}
	next := tilePos{p.x, p.y + dy}
	if next.y < 0 || next.y >= Height {
		next = tilePos{p.x, p.y - dy}
	}
	if next.y < 0 || next.y >= Height {
		return tilePos{}, false
	}
	return next, true
}

func pickPathStep(r *rng.Seeded, current, prev, goal tilePos) (tilePos, bool) {
	steps := []tilePos{
		{current.x + 1, current.y},
		{current.x - 1, current.y},
		{current.x, current.y + 1},
		{current.x, current.y - 1},
	}

	var goalMoves, anyMoves []tilePos
	for _, s := range steps {
		if s.x < 0 || s.x >= Width || s.y < 0 || s.y >= Height || s == prev {
			continue
		}
		anyMoves = append(anyMoves, s)
		if manhattan(s, goal) < manhattan(current, goal) {
			goalMoves = append(goalMoves, s)
		}
	}

	candidates := goalMoves
	if r.Next() >= pathGoalBias && len(anyMoves) > 0 {
		candidates = anyMoves
	}
	if len(candidates) == 0 {
		candidates = anyMoves
	}
	if len(candidates) == 0 {
		return tilePos{}, false
	}
	return candidates[r.NextInt(0, len(candidates)-1)], true
}

// expandPath widens the raw one-tile path into a 2-3 tile corridor by adding
// the Moore neighborhood of every path tile.
func expandPath(raw []tilePos) map[tilePos]bool {
	walkable := make(map[tilePos]bool, len(raw)*9)
	for _, p := range raw {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := tilePos{p.x + dx, p.y + dy}
				if n.x >= 0 && n.x < Width && n.y >= 0 && n.y < Height {
					walkable[n] = true
				}
			}
		}
	}
	return walkable
}

// scatterObstacles places biome obstacles over non-path cells. Cells touching
// the corridor are usually skipped so the path never reads as blocked, but a
// secondary roll lets an occasional obstacle crowd the edge.
func scatterObstacles(m *TileMap, r *rng.Seeded, def *biome.Definition, walkable map[tilePos]bool) {
	if len(def.ObstacleTiles) == 0 {
		return
	}
	chance := def.ObstacleChance()

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			pos := tilePos{x, y}
			if walkable[pos] || !r.Chance(chance) {
				continue
			}
			if adjacentToPath(pos, walkable) && !r.Chance(nearPathChance) {
				continue
			}
			spec := def.ObstacleTiles[r.NextInt(0, len(def.ObstacleTiles)-1)]
			m.Tiles[y][x] = tileFrom(KindObstacle, spec)
		}
	}
}

func adjacentToPath(p tilePos, walkable map[tilePos]bool) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if walkable[tilePos{p.x + dx, p.y + dy}] {
				return true
			}
		}
	}
	return false
}

// buildBorders forces the four grid edges to wall tiles, leaving openings
// wherever the corridor touches an edge.
func buildBorders(m *TileMap, def *biome.Definition, walkable map[tilePos]bool) {
	wallSpec := biome.TileSpec{Type: "wall", Color: "#3a352e"}
	if w := def.WallTile(); w != nil {
		wallSpec = *w
	}

	setWall := func(x, y int) {
		if walkable[tilePos{x, y}] {
			return
		}
		m.Tiles[y][x] = tileFrom(KindWall, wallSpec)
	}

	for x := 0; x < Width; x++ {
		setWall(x, 0)
		setWall(x, Height-1)
	}
	for y := 0; y < Height; y++ {
		setWall(0, y)
		setWall(Width-1, y)
	}
}

// samplePathPoints down-samples the raw corridor to at most maxPathPoints
// pixel-space points, used downstream for object placement.
func samplePathPoints(raw []tilePos) []Point {
	step := 1
	if len(raw) > maxPathPoints {
		step = (len(raw) + maxPathPoints - 1) / maxPathPoints
	}

	points := make([]Point, 0, maxPathPoints)
	for i := 0; i < len(raw) && len(points) < maxPathPoints; i += step {
		points = append(points, Point{
			X: raw[i].x*TileSize + TileSize/2,
			Y: raw[i].y*TileSize + TileSize/2,
		})
	}
	return points
}

func manhattan(a, b tilePos) int {
	dx, dy := a.x-b.x, a.y-b.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
