package cache

import (
	"sort"
	"testing"

	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/room"
)

func residentSet(positions ...dungeon.Position) map[string]*room.Room {
	resident := make(map[string]*room.Room, len(positions))
	for _, p := range positions {
		resident[p.RoomID()] = &room.Room{ID: p.RoomID(), GridPos: p}
	}
	return resident
}

func TestRoomsToLoadIncludesCurrentAndOpenNeighbors(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	got := m.RoomsToLoad(pos, g, map[string]*room.Room{})
	sort.Strings(got)

	want := map[string]bool{pos.RoomID(): true}
	for _, n := range g.OpenNeighbors(pos) {
		want[n.RoomID()] = true
	}
	if len(got) != len(want) {
		t.Fatalf("RoomsToLoad() returned %d ids %v, want %d", len(got), got, len(want))
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("RoomsToLoad() returned unexpected id %s", id)
		}
	}
}

func TestRoomsToLoadSkipsResident(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	resident := residentSet(pos)
	for _, id := range m.RoomsToLoad(pos, g, resident) {
		if id == pos.RoomID() {
			t.Errorf("RoomsToLoad() re-requested resident room %s", id)
		}
	}
}

func TestRoomsToUnloadKeepsAdjacent(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	far := dungeon.Position{GridX: 8, GridY: 0}
	near := pos.Step(dungeon.East) // distance 1, never unloaded
	resident := residentSet(pos, near, far)

	got := m.RoomsToUnload(pos, g, resident)
	if len(got) != 1 || got[0] != far.RoomID() {
		t.Fatalf("RoomsToUnload() = %v, want [%s]", got, far.RoomID())
	}
}

func TestRoomsToUnloadNeverDropsKeepSet(t *testing.T) {
	g := dungeon.Build(7)
	m := NewManager()
	pos := g.Start

	resident := residentSet(pos)
	for _, n := range g.OpenNeighbors(pos) {
		resident[n.RoomID()] = &room.Room{ID: n.RoomID(), GridPos: n}
	}
	if got := m.RoomsToUnload(pos, g, resident); len(got) != 0 {
		t.Errorf("RoomsToUnload() = %v, want none while only keep set is resident", got)
	}
}

func TestPreloadAdjacentQueuesOnce(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	first := m.PreloadAdjacent(pos, g, map[string]*room.Room{})
	if len(first) != len(g.OpenNeighbors(pos)) {
		t.Fatalf("PreloadAdjacent() = %d targets, want %d", len(first), len(g.OpenNeighbors(pos)))
	}
	for _, p := range first {
		if !m.IsQueued(p.RoomID()) {
			t.Errorf("position %v not marked queued", p)
		}
	}

	if second := m.PreloadAdjacent(pos, g, map[string]*room.Room{}); len(second) != 0 {
		t.Errorf("second PreloadAdjacent() = %v, want none while still queued", second)
	}
}

func TestPreloadAdjacentSkipsResident(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	neighbors := g.OpenNeighbors(pos)
	resident := residentSet(neighbors[0])

	got := m.PreloadAdjacent(pos, g, resident)
	for _, p := range got {
		if p == neighbors[0] {
			t.Errorf("PreloadAdjacent() queued already-resident room %v", p)
		}
	}
	if len(got) != len(neighbors)-1 {
		t.Errorf("PreloadAdjacent() = %d targets, want %d", len(got), len(neighbors)-1)
	}
}

func TestMarkLoadedReleasesQueueSlot(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	targets := m.PreloadAdjacent(pos, g, map[string]*room.Room{})
	if len(targets) == 0 {
		t.Fatal("no preload targets from start cell")
	}
	id := targets[0].RoomID()

	m.MarkLoaded(id)
	if !m.IsLoaded(id) {
		t.Errorf("IsLoaded(%s) = false after MarkLoaded", id)
	}
	if m.IsQueued(id) {
		t.Errorf("IsQueued(%s) = true after MarkLoaded", id)
	}

	m.MarkUnloaded(id)
	if m.IsLoaded(id) {
		t.Errorf("IsLoaded(%s) = true after MarkUnloaded", id)
	}
}

func TestUnqueueAllowsRequeue(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	targets := m.PreloadAdjacent(pos, g, map[string]*room.Room{})
	if len(targets) == 0 {
		t.Fatal("no preload targets from start cell")
	}
	id := targets[0].RoomID()

	m.Unqueue(id)
	again := m.PreloadAdjacent(pos, g, map[string]*room.Room{})
	found := false
	for _, p := range again {
		if p.RoomID() == id {
			found = true
		}
	}
	if !found {
		t.Errorf("room %s not requeued after Unqueue", id)
	}
}

func TestResetClearsBookkeeping(t *testing.T) {
	g := dungeon.Build(42)
	m := NewManager()
	pos := g.Start

	m.MarkLoaded(pos.RoomID())
	m.PreloadAdjacent(pos, g, map[string]*room.Room{})
	m.Reset()

	if m.IsLoaded(pos.RoomID()) {
		t.Error("loaded set survived Reset")
	}
	if got := m.PreloadAdjacent(pos, g, map[string]*room.Room{}); len(got) == 0 {
		t.Error("queue set survived Reset")
	}
}
