// delvemap renders a generated dungeon grid and sample room tile maps as
// ASCII, for eyeballing generation output without a client.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/emberhollow/delvegen/internal/biome"
	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/tilemap"
)

func main() {
	seed := flag.Int64("seed", 42, "Story seed")
	roomNumber := flag.Int("room", 0, "Room number for the tile map preview")
	biomeKey := flag.String("biome", "dungeon", "Biome for the tile map preview (forest, plains, desert, dungeon, cave)")
	showTiles := flag.Bool("tiles", true, "Render the room tile map")
	showGrid := flag.Bool("grid", true, "Render the dungeon grid")
	flag.Parse()

	if *showGrid {
		g := dungeon.Build(*seed)
		fmt.Printf("Dungeon grid for seed %d (start %s, boss %s)\n\n", *seed, g.Start.RoomID(), g.Boss.RoomID())
		fmt.Print(renderGrid(g))
		fmt.Println()
	}

	if *showTiles {
		known := false
		for _, k := range biome.LegacyKeys() {
			if k == *biomeKey {
				known = true
			}
		}
		if !known {
			fmt.Fprintf(os.Stderr, "unknown biome %q\n", *biomeKey)
			os.Exit(1)
		}
		m := tilemap.Synthesize(*seed, *roomNumber, biome.Legacy(*biomeKey))
		fmt.Printf("Room %d tile map, biome %s (spawn %d,%d / %d path points)\n\n",
			*roomNumber, *biomeKey, m.SpawnPoint.X, m.SpawnPoint.Y, len(m.PathPoints))
		fmt.Print(m.Render())
	}
}

// renderGrid draws the dungeon as one glyph per cell:
// S start, B boss, # main path, + branch, . inaccessible.
func renderGrid(g *dungeon.Grid) string {
	var sb strings.Builder
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			cell := g.Cells[y][x]
			pos := dungeon.Position{GridX: x, GridY: y}
			switch {
			case pos == g.Start:
				sb.WriteByte('S')
			case pos == g.Boss:
				sb.WriteByte('B')
			case cell.OnMainPath:
				sb.WriteByte('#')
			case cell.Accessible():
				sb.WriteByte('+')
			default:
				sb.WriteByte('.')
			}
			if x < g.Size-1 {
				if cell.HasExit(dungeon.East) {
					sb.WriteByte('-')
				} else {
					sb.WriteByte(' ')
				}
			}
		}
		sb.WriteByte('\n')
		if y < g.Size-1 {
			for x := 0; x < g.Size; x++ {
				if g.Cells[y][x].HasExit(dungeon.South) {
					sb.WriteByte('|')
				} else {
					sb.WriteByte(' ')
				}
				if x < g.Size-1 {
					sb.WriteByte(' ')
				}
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
