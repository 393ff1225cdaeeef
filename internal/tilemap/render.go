package tilemap

import "strings"

// Render returns an ASCII preview of the tile map, one rune per tile. Used
// by the delvemap preview tool and in test failure output.
func (m *TileMap) Render() string {
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			switch m.Tiles[y][x].Kind {
			case KindPath:
				b.WriteByte('.')
			case KindObstacle:
				b.WriteByte('o')
			case KindWall:
				b.WriteByte('#')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
