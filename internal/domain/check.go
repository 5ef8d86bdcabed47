package domain

// direction offsets scanned from each occupied cell, in tie-break order:
// right, up, up-right, up-left
var directions = [...]struct{ dx, dy int }{
	{1, 0},
	{0, -1},
	{1, -1},
	{-1, -1},
}

// CheckFour scans the playable area for four connected tiles.
//
// Rows are visited top to bottom and columns left to right; the first line
// found wins, so simultaneous lines resolve to the topmost, then leftmost
// starting cell, then the direction order above. Draw is reported only when
// no playable cell is empty and nobody has won.
func (g *Grid) CheckFour() Outcome {
	full := true

	for y := FirstPlayableRow; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			tile := g.at(x, y)
			if tile == Empty {
				full = false
				continue
			}

			for _, d := range directions {
				if line, ok := g.lineFrom(x, y, d.dx, d.dy, tile); ok {
					return Outcome{Kind: Winner, Winner: tile, Line: line}
				}
			}
		}
	}

	if full {
		return Outcome{Kind: Draw}
	}
	return Outcome{Kind: None}
}

// lineFrom checks ToWin cells starting at (x, y) stepping by (dx, dy). Cells
// in the indicator row never count.
func (g *Grid) lineFrom(x, y, dx, dy int, tile Tile) ([ToWin]Cell, bool) {
	var line [ToWin]Cell

	endX := x + dx*(ToWin-1)
	endY := y + dy*(ToWin-1)
	if endX < 0 || endX >= g.width || endY < FirstPlayableRow || endY >= g.height {
		return line, false
	}

	for i := 0; i < ToWin; i++ {
		cx, cy := x+dx*i, y+dy*i
		if g.at(cx, cy) != tile {
			return line, false
		}
		line[i] = Cell{X: cx, Y: cy}
	}
	return line, true
}
