package maze

// Terrain is the static ground type of a cell.
type Terrain uint8

const (
	Ground Terrain = iota // Ground can be walked on.
	Wall                  // Wall blocks every unit.
)

// Occupant is anything that can stand on a cell.
type Occupant interface {
	// Glyph returns the template tag used when the board is printed.
	Glyph() rune
}

// Cell represents a single square of the board.
// It holds its occupants in arrival order and a link to each of its four neighbors.
// Cells are not safe for concurrent use; the owning level serializes access.
type Cell struct {
	X       int        // X is the column of the cell in the current board.
	Y       int        // Y is the row of the cell in the current board.
	Terrain Terrain    // Terrain decides whether the cell can be entered at all.
	links   [4]*Cell   // Neighbor in every direction, indexed by Direction.
	units   []Occupant // Occupants in arrival order.
}

// NewCell returns an unlinked cell at the given coordinate.
func NewCell(x, y int, t Terrain) *Cell {
	return &Cell{X: x, Y: y, Terrain: t}
}

// Position returns the cell coordinate as a CellPosition.
func (c *Cell) Position() CellPosition {
	return CellPosition{Row: c.Y, Col: c.X}
}

// Neighbor returns the linked cell in direction d.
func (c *Cell) Neighbor(d Direction) *Cell {
	return c.links[d]
}

// Link makes n the neighbor of c in direction d.
func (c *Cell) Link(n *Cell, d Direction) {
	c.links[d] = n
}

// Linked reports whether all four links are set.
func (c *Cell) Linked() bool {
	for _, l := range c.links {
		if l == nil {
			return false
		}
	}
	return true
}

// Accessible reports whether a unit may enter the cell.
func (c *Cell) Accessible() bool {
	return c.Terrain != Wall
}

// Occupants returns a copy of the occupant list in arrival order.
func (c *Cell) Occupants() []Occupant {
	out := make([]Occupant, len(c.units))
	copy(out, c.units)
	return out
}

// Len returns the number of occupants.
func (c *Cell) Len() int {
	return len(c.units)
}

// Has reports whether o stands on the cell.
func (c *Cell) Has(o Occupant) bool {
	for _, u := range c.units {
		if u == o {
			return true
		}
	}
	return false
}

// Enter appends o to the occupant list. Entering twice is a no-op.
func (c *Cell) Enter(o Occupant) {
	if c.Has(o) {
		return
	}
	c.units = append(c.units, o)
}

// Leave removes o from the occupant list and reports whether it was there.
func (c *Cell) Leave(o Occupant) bool {
	for i, u := range c.units {
		if u == o {
			c.units = append(c.units[:i], c.units[i+1:]...)
			return true
		}
	}
	return false
}

// CellPosition represents the position of a cell in the board.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// GetRow returns the row index of the cell.
func (cp *CellPosition) GetRow() int {
	return cp.Row
}

// GetCol returns the column index of the cell.
func (cp *CellPosition) GetCol() int {
	return cp.Col
}
