package domain

import (
	"fmt"
	"strings"
)

// undoRecord remembers the single cell overwritten by the last placement.
type undoRecord struct {
	x, y     int
	previous Tile
}

// Grid is the playing surface. Row 0 is the indicator row used to show the
// selected column; rows 1..height-1 hold the pieces, bottom row last.
type Grid struct {
	width  int
	height int

	// cells[y-FirstPlayableRow][x]
	cells     [][]Tile
	indicator []Tile

	lastMove *undoRecord
	selected int
	active   Tile
}

// NewGrid creates an empty grid. Width must be at least 4 and height at
// least 5 (one indicator row plus four playable rows).
func NewGrid(width, height int) (*Grid, error) {
	if width < MinWidth || height < MinHeight {
		return nil, fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrDimension, width, height, MinWidth, MinHeight)
	}

	cells := make([][]Tile, height-FirstPlayableRow)
	for i := range cells {
		cells[i] = make([]Tile, width)
	}

	return &Grid{
		width:     width,
		height:    height,
		cells:     cells,
		indicator: make([]Tile, width),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Selected returns the 0-indexed cursor column.
func (g *Grid) Selected() int { return g.selected }

// ActiveTile returns the tile painted at the cursor.
func (g *Grid) ActiveTile() Tile { return g.active }

func (g *Grid) at(x, y int) Tile {
	return g.cells[y-FirstPlayableRow][x]
}

// Place drops tile into column (1-indexed). The piece lands in the lowest
// empty playable row and becomes the only move UndoLast can revert.
func (g *Grid) Place(column int, tile Tile) error {
	if column < 1 || column > g.width {
		return fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidColumn, column, g.width)
	}
	if tile == Empty {
		return ErrInvalidTile
	}

	x := column - 1
	for y := g.height - 1; y >= FirstPlayableRow; y-- {
		row := g.cells[y-FirstPlayableRow]
		if row[x] == Empty {
			g.lastMove = &undoRecord{x: x, y: y, previous: row[x]}
			row[x] = tile
			return nil
		}
	}
	return ErrColumnFull
}

// UndoLast reverts the most recent placement. Only one level is kept.
func (g *Grid) UndoLast() error {
	if g.lastMove == nil {
		return ErrNoUndo
	}
	m := g.lastMove
	g.cells[m.y-FirstPlayableRow][m.x] = m.previous
	g.lastMove = nil
	return nil
}

// LastMove returns the cell written by the last placement, if it can still
// be undone.
func (g *Grid) LastMove() (Cell, bool) {
	if g.lastMove == nil {
		return Cell{}, false
	}
	return Cell{X: g.lastMove.x, Y: g.lastMove.y}, true
}

// Get returns the tile at (x, y). y == IndicatorRow reads the cursor row.
func (g *Grid) Get(x, y int) (Tile, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Empty, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrDimension, x, y, g.width, g.height)
	}
	if y == IndicatorRow {
		return g.indicator[x], nil
	}
	return g.at(x, y), nil
}

// IsFull reports whether every playable cell is occupied. Only the top
// playable row is checked: it assumes no piece floats above an empty cell,
// which holds as long as cells are only written through Place.
func (g *Grid) IsFull() bool {
	for _, t := range g.cells[0] {
		if t == Empty {
			return false
		}
	}
	return true
}

// Reset clears the playable cells and the indicator row. The cursor position
// and active tile are kept; callers repaint with SetActiveTile.
func (g *Grid) Reset() {
	for _, row := range g.cells {
		clear(row)
	}
	clear(g.indicator)
	g.lastMove = nil
}

// Clone returns an independent deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:     g.width,
		height:    g.height,
		cells:     make([][]Tile, len(g.cells)),
		indicator: make([]Tile, g.width),
		selected:  g.selected,
		active:    g.active,
	}
	for i := range g.cells {
		c.cells[i] = make([]Tile, g.width)
		copy(c.cells[i], g.cells[i])
	}
	copy(c.indicator, g.indicator)
	if g.lastMove != nil {
		m := *g.lastMove
		c.lastMove = &m
	}
	return c
}

// CopyFrom overwrites g with the state of src without allocating. Both grids
// must share dimensions.
func (g *Grid) CopyFrom(src *Grid) error {
	if g.width != src.width || g.height != src.height {
		return fmt.Errorf("%w: cannot copy %dx%d into %dx%d", ErrDimension, src.width, src.height, g.width, g.height)
	}
	for i := range src.cells {
		copy(g.cells[i], src.cells[i])
	}
	copy(g.indicator, src.indicator)
	g.selected = src.selected
	g.active = src.active
	if src.lastMove == nil {
		g.lastMove = nil
	} else {
		m := *src.lastMove
		g.lastMove = &m
	}
	return nil
}

// Snapshot sweeps the whole grid, indicator row included, into a fresh
// row-major matrix for renderers.
func (g *Grid) Snapshot() [][]Tile {
	out := make([][]Tile, g.height)
	for y := 0; y < g.height; y++ {
		out[y] = make([]Tile, g.width)
		for x := 0; x < g.width; x++ {
			out[y][x], _ = g.Get(x, y)
		}
	}
	return out
}

func (g *Grid) MoveSelectionLeft() {
	g.unpaint()
	g.selected = (g.selected + g.width - 1) % g.width
	g.paint()
}

func (g *Grid) MoveSelectionRight() {
	g.unpaint()
	g.selected = (g.selected + 1) % g.width
	g.paint()
}

// PlaceAtSelection places the active tile in the selected column.
func (g *Grid) PlaceAtSelection() error {
	return g.Place(g.selected+1, g.active)
}

// SetActiveTile paints tile at the cursor and remembers it for later moves.
func (g *Grid) SetActiveTile(tile Tile) {
	g.active = tile
	g.paint()
}

// ClearActiveTile unpaints the cursor cell. The active tile is kept so the
// next cursor move repaints it.
func (g *Grid) ClearActiveTile() {
	g.unpaint()
}

func (g *Grid) paint()   { g.indicator[g.selected] = g.active }
func (g *Grid) unpaint() { g.indicator[g.selected] = Empty }

func (g *Grid) String() string {
	var sb strings.Builder

	sb.WriteString("#")
	for x := 1; x <= g.width; x++ {
		switch {
		case x < 10:
			fmt.Fprintf(&sb, "-%d-", x)
		case x < 100:
			fmt.Fprintf(&sb, "%d-", x)
		default:
			fmt.Fprintf(&sb, "%d", x)
		}
	}
	sb.WriteString("#\n")

	for y := FirstPlayableRow; y < g.height; y++ {
		sb.WriteString("|")
		for x := 0; x < g.width; x++ {
			switch g.at(x, y) {
			case Player1:
				sb.WriteString(" x ")
			case Player2:
				sb.WriteString(" o ")
			default:
				sb.WriteString(" . ")
			}
		}
		sb.WriteString("|\n")
	}

	sb.WriteString("#")
	sb.WriteString(strings.Repeat("---", g.width))
	sb.WriteString("#\n")
	return sb.String()
}
