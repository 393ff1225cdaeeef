package dungeon

import (
	"github.com/emberhollow/delvegen/internal/rng"
)

// Generation tuning. The walk is 70% goal-directed so paths wander without
// losing overall progress toward the boss cell.
const (
	goalBias          = 0.7
	minBranches       = 5
	maxBranches       = 10
	minBranchLength   = 2
	maxBranchLength   = 4
	minRewardRooms    = 8
	maxRewardRooms    = 12
	minSafeRooms      = 4
	maxSafeRooms      = 6
	minPuzzleRooms    = 4
	maxPuzzleRooms    = 6
	maxMainPathLength = GridSize * GridSize * 8 // walk guard, never hit in practice
)

// Build generates the dungeon grid for a story seed. Generation is total:
// any seed yields a valid grid with a main path from start to boss, 5-10
// best-effort branches, and room types assigned from the path topology.
func Build(storySeed int64) *Grid {
	r := rng.New(storySeed)

	mid := GridSize / 2
	g := &Grid{
		Size:  GridSize,
		Cells: make([][]*Cell, GridSize),
		Start: Position{GridX: 0, GridY: mid},
		Boss:  Position{GridX: GridSize - 1, GridY: mid},
	}
	for y := 0; y < GridSize; y++ {
		g.Cells[y] = make([]*Cell, GridSize)
		for x := 0; x < GridSize; x++ {
			g.Cells[y][x] = NewCell(x, y)
		}
	}

	mainPath := carveMainPath(g, r)
	carveBranches(g, r, mainPath)
	assignRoomTypes(g, r, mainPath)

	return g
}

// carveMainPath walks from the start cell to the boss cell, connecting each
// consecutive pair of cells, and returns the visited positions in order.
func carveMainPath(g *Grid, r *rng.Seeded) []Position {
	current := g.Start
	prev := Position{GridX: -1, GridY: -1}

	path := []Position{current}
	startCell := g.Cell(current)
	startCell.OnMainPath = true
	startCell.DistanceFromStart = 0

	for current != g.Boss {
		next, ok := pickStep(g, r, current, prev)
		if !ok {
			break
		}
		if len(path) >= maxMainPathLength {
			// Walk guard: finish with a deterministic march to the boss.
			next, ok = goalStep(g, current, prev)
			if !ok {
				break
			}
		}

		dir := directionBetween(current, next)
		g.connect(current, dir)

		prev = current
		current = next

		cell := g.Cell(current)
		if !cell.OnMainPath {
			cell.OnMainPath = true
			cell.DistanceFromStart = len(path)
		}
		path = append(path, current)
	}

	return path
}

// pickStep chooses the next cell of the main path: 70% of the time a move
// that closes the x or y distance to the boss, otherwise any in-bounds move.
// The immediate predecessor is never a candidate.
func pickStep(g *Grid, r *rng.Seeded, current, prev Position) (Position, bool) {
	var goalMoves, anyMoves []Position
	for _, d := range AllDirections() {
		next := current.Step(d)
		if !g.InBounds(next) || next == prev {
			continue
		}
		anyMoves = append(anyMoves, next)
		if next.ManhattanDistance(g.Boss) < current.ManhattanDistance(g.Boss) {
			goalMoves = append(goalMoves, next)
		}
	}

	candidates := goalMoves
	if r.Next() >= goalBias && len(anyMoves) > 0 {
		candidates = anyMoves
	}
	if len(candidates) == 0 {
		candidates = anyMoves
	}
	if len(candidates) == 0 {
		return Position{}, false
	}
	return candidates[r.NextInt(0, len(candidates)-1)], true
}

// goalStep returns the first goal-reducing move that is not the immediate
// predecessor. On a 9x9 grid at least one always exists away from the boss.
func goalStep(g *Grid, current, prev Position) (Position, bool) {
	for _, d := range AllDirections() {
		next := current.Step(d)
		if !g.InBounds(next) || next == prev {
			continue
		}
		if next.ManhattanDistance(g.Boss) < current.ManhattanDistance(g.Boss) {
			return next, true
		}
	}
	return Position{}, false
}

// carveBranches adds 5-10 short dead-end paths off interior main-path cells.
// A branch attempt that finds no valid direction is silently skipped, so the
// final count is best-effort.
func carveBranches(g *Grid, r *rng.Seeded, mainPath []Position) {
	if len(mainPath) < 3 {
		return
	}

	numBranches := r.NextInt(minBranches, maxBranches)
	for i := 0; i < numBranches; i++ {
		// Interior cell: never the start or boss endpoints.
		origin := mainPath[r.NextInt(1, len(mainPath)-2)]
		length := r.NextInt(minBranchLength, maxBranchLength)

		for _, d := range rng.Shuffle(r, AllDirections()) {
			if cells, ok := branchCells(g, origin, d, length); ok {
				carveBranch(g, origin, d, cells)
				break
			}
		}
	}
}

// branchCells returns the cells a branch would occupy, or false if any of
// them is out of bounds or already on the main path.
func branchCells(g *Grid, origin Position, d Direction, length int) ([]Position, bool) {
	cells := make([]Position, 0, length)
	pos := origin
	for i := 0; i < length; i++ {
		pos = pos.Step(d)
		cell := g.Cell(pos)
		if cell == nil || cell.OnMainPath {
			return nil, false
		}
		cells = append(cells, pos)
	}
	return cells, true
}

func carveBranch(g *Grid, origin Position, d Direction, cells []Position) {
	originDist := g.Cell(origin).DistanceFromStart
	prev := origin
	for i, pos := range cells {
		g.connect(prev, d)
		if cell := g.Cell(pos); cell.DistanceFromStart == DistanceUnreached {
			cell.DistanceFromStart = originDist + i + 1
		}
		prev = pos
	}
}

// assignRoomTypes fixes start/boss, then distributes reward, safe, and
// puzzle rooms over the accessible cells. Whatever remains accessible and
// untyped stays a combat room.
func assignRoomTypes(g *Grid, r *rng.Seeded, mainPath []Position) {
	g.Cell(g.Start).Type = RoomTypeStart
	g.Cell(g.Boss).Type = RoomTypeBoss

	// Reward rooms: dead ends off the main path.
	var rewardCandidates []*Cell
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			cell := g.Cells[y][x]
			if cell.Accessible() && cell.ExitCount() == 1 && !cell.OnMainPath {
				rewardCandidates = append(rewardCandidates, cell)
			}
		}
	}
	numReward := r.NextInt(minRewardRooms, maxRewardRooms)
	for _, cell := range takeRandom(r, rewardCandidates, numReward) {
		cell.Type = RoomTypeReward
	}

	// Safe rooms: evenly spaced along the main path.
	numSafe := r.NextInt(minSafeRooms, maxSafeRooms)
	spacing := len(mainPath) / (numSafe + 1)
	if spacing > 0 {
		for i := 1; i <= numSafe; i++ {
			idx := i * spacing
			if idx >= len(mainPath) {
				break
			}
			cell := g.Cell(mainPath[idx])
			if cell.Type == RoomTypeCombat {
				cell.Type = RoomTypeSafe
			}
		}
	}

	// Puzzle rooms: off-path cells still carrying the default type.
	var puzzleCandidates []*Cell
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			cell := g.Cells[y][x]
			if cell.Accessible() && !cell.OnMainPath && cell.Type == RoomTypeCombat {
				puzzleCandidates = append(puzzleCandidates, cell)
			}
		}
	}
	numPuzzle := r.NextInt(minPuzzleRooms, maxPuzzleRooms)
	for _, cell := range takeRandom(r, puzzleCandidates, numPuzzle) {
		cell.Type = RoomTypePuzzle
	}
}

// takeRandom returns up to n cells drawn without replacement.
func takeRandom(r *rng.Seeded, cells []*Cell, n int) []*Cell {
	shuffled := rng.Shuffle(r, cells)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// directionBetween returns the direction of a single grid step from a to b.
// The positions must be orthogonally adjacent.
func directionBetween(a, b Position) Direction {
	switch {
	case b.GridX > a.GridX:
		return East
	case b.GridX < a.GridX:
		return West
	case b.GridY > a.GridY:
		return South
	default:
		return North
	}
}
