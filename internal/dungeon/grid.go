package dungeon

import "fmt"

// GridSize is the fixed width and height of the dungeon grid.
const GridSize = 9

// DistanceUnreached is the sentinel DistanceFromStart for cells the main
// path never visited.
const DistanceUnreached = -1

// Position identifies a cell in the dungeon grid.
type Position struct {
	GridX int `json:"gridX" yaml:"grid_x"`
	GridY int `json:"gridY" yaml:"grid_y"`
}

// RoomID returns the canonical room identifier for a grid cell.
func (p Position) RoomID() string {
	return fmt.Sprintf("room_%d_%d", p.GridX, p.GridY)
}

// Index returns the position's row-major ordinal in the grid. Every cell
// has a distinct index, so anything seeded from it is stable per room
// regardless of the order rooms are visited or generated.
func (p Position) Index() int {
	return p.GridY*GridSize + p.GridX
}

// Step returns the position one cell away in the given direction.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{GridX: p.GridX + dx, GridY: p.GridY + dy}
}

// ManhattanDistance returns the grid-space Manhattan distance to another position.
func (p Position) ManhattanDistance(o Position) int {
	return abs(p.GridX-o.GridX) + abs(p.GridY-o.GridY)
}

// Cell is one node of the dungeon grid. Cells are created once per
// playthrough by Build and are immutable afterwards.
type Cell struct {
	GridX             int
	GridY             int
	Type              RoomType
	Exits             map[Direction]bool
	OnMainPath        bool
	DistanceFromStart int
}

// NewCell creates an unconnected combat cell at the given position.
func NewCell(x, y int) *Cell {
	return &Cell{
		GridX:             x,
		GridY:             y,
		Type:              RoomTypeCombat,
		Exits:             make(map[Direction]bool),
		DistanceFromStart: DistanceUnreached,
	}
}

// Position returns the cell's grid position.
func (c *Cell) Position() Position {
	return Position{GridX: c.GridX, GridY: c.GridY}
}

// HasExit returns true if a passage exists toward the given direction.
func (c *Cell) HasExit(d Direction) bool {
	return c.Exits[d]
}

// ExitCount returns the number of open exits.
func (c *Cell) ExitCount() int {
	count := 0
	for _, open := range c.Exits {
		if open {
			count++
		}
	}
	return count
}

// Accessible returns true if the cell is connected to the dungeon at all.
func (c *Cell) Accessible() bool {
	return c.ExitCount() > 0
}

// Grid is the dungeon topology for an entire playthrough: a fixed-size grid
// of cells carved with one guaranteed main path plus branches. Built once per
// story seed and read-only thereafter, so it is safe for concurrent reads.
type Grid struct {
	Size  int
	Cells [][]*Cell // indexed [y][x]
	Start Position
	Boss  Position
}

// InBounds reports whether a position lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.GridX >= 0 && p.GridX < g.Size && p.GridY >= 0 && p.GridY < g.Size
}

// Cell returns the cell at a position, or nil if out of bounds.
func (g *Grid) Cell(p Position) *Cell {
	if !g.InBounds(p) {
		return nil
	}
	return g.Cells[p.GridY][p.GridX]
}

// Neighbor returns the cell one step away in the given direction, or nil at
// the grid edge.
func (g *Grid) Neighbor(p Position, d Direction) *Cell {
	return g.Cell(p.Step(d))
}

// OpenNeighbors returns the positions reachable through open exits from p.
func (g *Grid) OpenNeighbors(p Position) []Position {
	cell := g.Cell(p)
	if cell == nil {
		return nil
	}
	var out []Position
	for _, d := range AllDirections() {
		if cell.HasExit(d) && g.InBounds(p.Step(d)) {
			out = append(out, p.Step(d))
		}
	}
	return out
}

// connect opens the paired exits between two adjacent cells. Exits stay
// symmetric: the destination's opposite exit is always opened with the
// source's.
func (g *Grid) connect(from Position, d Direction) {
	a := g.Cell(from)
	b := g.Cell(from.Step(d))
	if a == nil || b == nil {
		return
	}
	a.Exits[d] = true
	b.Exits[d.Opposite()] = true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
