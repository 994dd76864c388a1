package maze

import "fmt"

// TileFactory returns a fresh tile of the board's template each time it is called.
type TileFactory func() (*Tile, error)

// Extend grows the board by one tile length in direction d and returns the new tiles,
// in raster order, so the caller can attach units to their marks.
//
// Existing cells keep their identity and their occupants. Growing east or south keeps
// the existing cells at the origin; growing west or north shifts them by one tile.
// Every cell is relinked with wraparound and stamped with its new coordinate. A factory
// error leaves the board untouched.
func (b *Board) Extend(d Direction, newTile TileFactory) ([]*Tile, error) {
	w, h := b.Width(), b.Height()
	tw, th := b.tileWidth, b.tileHeight

	nw, nh := w, h
	var oldX, oldY int     // Offset of the existing cells.
	var stripX, stripY int // Origin of the exposed region.
	var stripW, stripH int // Size of the exposed region.
	switch d {
	case East:
		nw, stripX, stripW, stripH = w+tw, w, tw, h
	case West:
		nw, oldX, stripW, stripH = w+tw, tw, tw, h
	case South:
		nh, stripY, stripW, stripH = h+th, h, w, th
	case North:
		nh, oldY, stripW, stripH = h+th, th, w, th
	default:
		return nil, fmt.Errorf("%w: cannot extend towards %v", ErrConfiguration, d)
	}
	if stripW%tw != 0 || stripH%th != 0 {
		return nil, fmt.Errorf("%w: %dx%d board is not tiled by %dx%d", ErrConfiguration, w, h, tw, th)
	}

	across, down := stripW/tw, stripH/th
	tiles := make([]*Tile, 0, across*down)
	for i := 0; i < across*down; i++ {
		tile, err := newTile()
		if err != nil {
			return nil, err
		}
		if len(tile.Cells) != tw || len(tile.Cells[0]) != th {
			return nil, fmt.Errorf("%w: tile is %dx%d, want %dx%d", ErrConfiguration, len(tile.Cells), len(tile.Cells[0]), tw, th)
		}
		tiles = append(tiles, tile)
	}

	grid := make([][]*Cell, nw)
	for x := range grid {
		grid[x] = make([]*Cell, nh)
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			grid[x+oldX][y+oldY] = b.grid[x][y]
		}
	}
	for i, tile := range tiles {
		originX := stripX + (i%across)*tw
		originY := stripY + (i/across)*th
		for x := 0; x < tw; x++ {
			for y := 0; y < th; y++ {
				grid[originX+x][originY+y] = tile.Cells[x][y]
			}
		}
	}

	b.grid = grid
	b.relink()
	return tiles, nil
}

// NearEdges returns the directions whose board edge is at most margin cells away from c.
func (b *Board) NearEdges(c *Cell, margin int) []Direction {
	var near []Direction
	if c.Y <= margin {
		near = append(near, North)
	}
	if b.Width()-1-c.X <= margin {
		near = append(near, East)
	}
	if b.Height()-1-c.Y <= margin {
		near = append(near, South)
	}
	if c.X <= margin {
		near = append(near, West)
	}
	return near
}
