package maze

import "fmt"

// Direction is one of the four cardinal directions of the board.
type Direction uint8

// Cardinal directions. The order is the order cells are relinked in.
const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in link order.
var Directions = [4]Direction{North, East, South, West}

var deltas = [4]CellPosition{
	North: {Col: 0, Row: -1},
	East:  {Col: 1, Row: 0},
	South: {Col: 0, Row: 1},
	West:  {Col: -1, Row: 0},
}

// Delta returns the column and row offset of one step in d.
func (d Direction) Delta() (dx, dy int) {
	delta := deltas[d]
	return delta.Col, delta.Row
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Horizontal reports whether d runs along the x axis.
func (d Direction) Horizontal() bool {
	return d == East || d == West
}

// Parallel reports whether d and o lie on the same axis.
func (d Direction) Parallel(o Direction) bool {
	return d.Horizontal() == o.Horizontal()
}

// String returns the full direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection accepts a full name ("North") or the initial letter ("N").
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "North", "north", "N", "n":
		return North, nil
	case "East", "east", "E", "e":
		return East, nil
	case "South", "south", "S", "s":
		return South, nil
	case "West", "west", "W", "w":
		return West, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrConfiguration, s)
}
