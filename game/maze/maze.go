/*
Package maze provides the board a level is played on.

A board is a rectangular, toroidal grid of cells. Every cell holds a link to each of its
four neighbors; links wrap around the edges, so walking off the east edge lands on the
west edge. Boards are built from templates, can grow by whole template tiles in any
direction, and offer reachability helpers used by spawners and hunter policies.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Board-related errors.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrOutOfBounds   = errors.New("coordinate out of bounds")
)

// Board represents a rectangular grid of linked cells.
// Board is not safe for concurrent use; the owning level serializes access.
type Board struct {
	grid       [][]*Cell // grid[x][y]
	tileWidth  int       // Width of the template the board is tiled with.
	tileHeight int       // Height of the template the board is tiled with.
}

// NewBoard builds a board from a [x][y] grid of cells and links every cell to its
// neighbors with wraparound. tileWidth and tileHeight are the template dimensions used
// when the board grows; zero means the board dimensions.
func NewBoard(grid [][]*Cell, tileWidth, tileHeight int) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrConfiguration)
	}
	height := len(grid[0])
	for x := range grid {
		if len(grid[x]) != height {
			return nil, fmt.Errorf("%w: column %d has height %d, want %d", ErrConfiguration, x, len(grid[x]), height)
		}
		for y, c := range grid[x] {
			if c == nil {
				return nil, fmt.Errorf("%w: missing cell at (%d,%d)", ErrConfiguration, x, y)
			}
		}
	}
	if tileWidth <= 0 {
		tileWidth = len(grid)
	}
	if tileHeight <= 0 {
		tileHeight = height
	}

	b := &Board{grid: grid, tileWidth: tileWidth, tileHeight: tileHeight}
	b.relink()
	return b, nil
}

// FromTemplate builds a single-tile board from a fresh instantiation of t.
func FromTemplate(t *Template) (*Board, *Tile, error) {
	tile := t.NewTile()
	b, err := NewBoard(tile.Cells, t.Width, t.Height)
	if err != nil {
		return nil, nil, err
	}
	return b, tile, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return len(b.grid) }

// Height returns the number of rows.
func (b *Board) Height() int { return len(b.grid[0]) }

// TileWidth returns the width of one template tile.
func (b *Board) TileWidth() int { return b.tileWidth }

// TileHeight returns the height of one template tile.
func (b *Board) TileHeight() int { return b.tileHeight }

// InBound checks if the given coordinate is within the board.
func (b *Board) InBound(x, y int) bool {
	return x >= 0 && x < b.Width() && y >= 0 && y < b.Height()
}

// CellAt returns the cell at (x, y).
func (b *Board) CellAt(x, y int) (*Cell, error) {
	if !b.InBound(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) on a %dx%d board", ErrOutOfBounds, x, y, b.Width(), b.Height())
	}
	return b.grid[x][y], nil
}

// MustCellAt is like CellAt but panics when (x, y) is outside the board.
func (b *Board) MustCellAt(x, y int) *Cell {
	c, err := b.CellAt(x, y)
	if err != nil {
		panic(err)
	}
	return c
}

// Wrap returns the cell at (x, y) after reducing the coordinate modulo the board size.
func (b *Board) Wrap(x, y int) *Cell {
	return b.grid[mod(x, b.Width())][mod(y, b.Height())]
}

// Center returns the cell at the middle of the board.
func (b *Board) Center() *Cell {
	return b.grid[b.Width()/2][b.Height()/2]
}

// Cells calls fn for every cell in raster order until fn returns false.
func (b *Board) Cells(fn func(c *Cell) bool) {
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if !fn(b.grid[x][y]) {
				return
			}
		}
	}
}

// relink sets the four links of every cell and stamps every cell with its coordinate.
func (b *Board) relink() {
	w, h := b.Width(), b.Height()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := b.grid[x][y]
			c.X, c.Y = x, y
			for _, d := range Directions {
				dx, dy := d.Delta()
				c.Link(b.grid[mod(x+dx, w)][mod(y+dy, h)], d)
			}
		}
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

// String provides a textual representation of the board, one rune per cell.
// The last occupant to arrive decides the rune; empty cells show their terrain.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			c := b.grid[x][y]
			switch {
			case c.Len() > 0:
				sb.WriteRune(c.units[len(c.units)-1].Glyph())
			case c.Terrain == Wall:
				sb.WriteRune(rune(TagWall))
			default:
				sb.WriteRune(rune(TagGround))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
