package dungeon

import "testing"

func TestBuildFreshGrid(t *testing.T) {
	g := Build(42)

	if g.Start != (Position{GridX: 0, GridY: 4}) {
		t.Errorf("Start = %+v, want {0 4}", g.Start)
	}
	if g.Boss != (Position{GridX: 8, GridY: 4}) {
		t.Errorf("Boss = %+v, want {8 4}", g.Boss)
	}
	if got := g.Cells[4][0].Type; got != RoomTypeStart {
		t.Errorf("Cells[4][0].Type = %s, want start", got)
	}
	if got := g.Cells[4][8].Type; got != RoomTypeBoss {
		t.Errorf("Cells[4][8].Type = %s, want boss", got)
	}
}

func TestBuildExitSymmetry(t *testing.T) {
	for _, seed := range []int64{1, 42, 777, 123456} {
		g := Build(seed)

		for y := 0; y < g.Size; y++ {
			for x := 0; x < g.Size; x++ {
				cell := g.Cells[y][x]
				for _, d := range AllDirections() {
					neighbor := g.Neighbor(cell.Position(), d)
					if cell.HasExit(d) {
						if neighbor == nil {
							t.Fatalf("seed %d: cell (%d,%d) has %s exit off the grid", seed, x, y, d)
						}
						if !neighbor.HasExit(d.Opposite()) {
							t.Fatalf("seed %d: asymmetric exit at (%d,%d) %s", seed, x, y, d)
						}
					} else if neighbor != nil && neighbor.HasExit(d.Opposite()) {
						t.Fatalf("seed %d: asymmetric exit at (%d,%d) from neighbor %s", seed, x, y, d)
					}
				}
			}
		}
	}
}

// The main path must connect start to boss through open exits.
func TestBuildReachability(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 999, 31337} {
		g := Build(seed)

		visited := map[Position]bool{g.Start: true}
		queue := []Position{g.Start}
		for len(queue) > 0 {
			pos := queue[0]
			queue = queue[1:]
			for _, next := range g.OpenNeighbors(pos) {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		if !visited[g.Boss] {
			t.Errorf("seed %d: boss cell not reachable from start", seed)
		}

		// Every accessible cell must be reachable from the start; branches
		// only ever attach to the main path.
		for y := 0; y < g.Size; y++ {
			for x := 0; x < g.Size; x++ {
				cell := g.Cells[y][x]
				if cell.Accessible() && !visited[cell.Position()] {
					t.Errorf("seed %d: accessible cell (%d,%d) unreachable", seed, x, y)
				}
			}
		}
	}
}

func TestBuildMainPathMarked(t *testing.T) {
	g := Build(7)

	start := g.Cell(g.Start)
	if !start.OnMainPath || start.DistanceFromStart != 0 {
		t.Errorf("start cell: OnMainPath=%v dist=%d", start.OnMainPath, start.DistanceFromStart)
	}

	boss := g.Cell(g.Boss)
	if !boss.OnMainPath {
		t.Error("boss cell not on main path")
	}
	if boss.DistanceFromStart < g.Start.ManhattanDistance(g.Boss) {
		t.Errorf("boss distance %d shorter than Manhattan distance", boss.DistanceFromStart)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(1000)
	b := Build(1000)

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			ca, cb := a.Cells[y][x], b.Cells[y][x]
			if ca.Type != cb.Type {
				t.Fatalf("cell (%d,%d): type %s vs %s", x, y, ca.Type, cb.Type)
			}
			if ca.OnMainPath != cb.OnMainPath || ca.DistanceFromStart != cb.DistanceFromStart {
				t.Fatalf("cell (%d,%d): path marking diverged", x, y)
			}
			for _, d := range AllDirections() {
				if ca.HasExit(d) != cb.HasExit(d) {
					t.Fatalf("cell (%d,%d): exit %s diverged", x, y, d)
				}
			}
		}
	}
}

func TestBuildRoomTypeCounts(t *testing.T) {
	for _, seed := range []int64{5, 42, 2024} {
		g := Build(seed)

		counts := make(map[RoomType]int)
		for y := 0; y < g.Size; y++ {
			for x := 0; x < g.Size; x++ {
				if g.Cells[y][x].Accessible() {
					counts[g.Cells[y][x].Type]++
				}
			}
		}

		if counts[RoomTypeStart] != 1 {
			t.Errorf("seed %d: %d start rooms", seed, counts[RoomTypeStart])
		}
		if counts[RoomTypeBoss] != 1 {
			t.Errorf("seed %d: %d boss rooms", seed, counts[RoomTypeBoss])
		}
		if counts[RoomTypeReward] > maxRewardRooms {
			t.Errorf("seed %d: %d reward rooms, max %d", seed, counts[RoomTypeReward], maxRewardRooms)
		}
		if counts[RoomTypeSafe] > maxSafeRooms {
			t.Errorf("seed %d: %d safe rooms, max %d", seed, counts[RoomTypeSafe], maxSafeRooms)
		}
		if counts[RoomTypePuzzle] > maxPuzzleRooms {
			t.Errorf("seed %d: %d puzzle rooms, max %d", seed, counts[RoomTypePuzzle], maxPuzzleRooms)
		}
	}
}

func TestRoomID(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{0, 4}, "room_0_4"},
		{Position{8, 4}, "room_8_4"},
		{Position{3, 7}, "room_3_7"},
	}

	for _, tc := range tests {
		if got := tc.pos.RoomID(); got != tc.want {
			t.Errorf("RoomID(%+v) = %q, want %q", tc.pos, got, tc.want)
		}
	}
}

func TestParseRoomTypeRoundTrip(t *testing.T) {
	types := []RoomType{RoomTypeStart, RoomTypeBoss, RoomTypeSafe, RoomTypeReward, RoomTypePuzzle, RoomTypeCombat}
	for _, rt := range types {
		parsed, ok := ParseRoomType(rt.String())
		if !ok || parsed != rt {
			t.Errorf("ParseRoomType(%q) = %v, %v", rt.String(), parsed, ok)
		}
	}
}
