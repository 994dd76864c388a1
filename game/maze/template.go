package maze

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is the character a template uses for the content of one cell.
type Tag rune

// Template tags.
const (
	TagWall     Tag = '#' // Impassable terrain.
	TagGround   Tag = ' ' // Empty ground.
	TagPellet   Tag = '.' // Small collectible.
	TagPower    Tag = 'o' // Power collectible.
	TagPlayer   Tag = 'P' // Player start.
	TagHunter   Tag = 'G' // Hunter spawn.
	TagTeleport Tag = 'T' // Teleport, needs a reference line.
	TagHole     Tag = 'H' // Hole.
	TagBridge   Tag = 'B' // Bridge, needs a bridge line.
)

const separatorRune = '-'

// BridgeSpec describes the orientation of a bridge and the facing it gives to units crossing it.
type BridgeSpec struct {
	Vertical bool      // Vertical bridges run north-south.
	Facing   Direction // Facing adopted by units teleported onto the bridge.
}

// Template is a parsed, immutable map definition.
// A template is the unit the board is tiled with when it grows.
type Template struct {
	Width     int            // Width is the number of columns.
	Height    int            // Height is the number of rows.
	tags      [][]Tag        // tags[x][y]
	teleports []CellPosition // Destination of every teleport, in raster order.
	bridges   []BridgeSpec   // Spec of every bridge, in raster order.
}

// ParseTemplate parses a template from its text lines.
//
// The map rows come first. An optional separator row made of '-' introduces one
// "x y" teleport reference per teleport, in raster order. A second separator
// introduces one "O D" bridge line per bridge where O is H or V and D a direction
// initial. Every malformed input fails with ErrConfiguration.
func ParseTemplate(lines []string) (*Template, error) {
	sections := splitSections(lines)
	rows := sections[0]
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrConfiguration)
	}
	if len(sections) > 3 {
		return nil, fmt.Errorf("%w: too many sections", ErrConfiguration)
	}

	width, height := len(rows[0]), len(rows)
	t := &Template{Width: width, Height: height, tags: make([][]Tag, width)}
	for x := range t.tags {
		t.tags[x] = make([]Tag, height)
	}

	teleportCount, bridgeCount := 0, 0
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrConfiguration, y, len(row), width)
		}
		for x, r := range row {
			tag := Tag(r)
			switch tag {
			case TagWall, TagGround, TagPellet, TagPower, TagPlayer, TagHunter, TagHole:
			case TagTeleport:
				teleportCount++
			case TagBridge:
				bridgeCount++
			default:
				return nil, fmt.Errorf("%w: unknown tag %q at (%d,%d)", ErrConfiguration, r, x, y)
			}
			t.tags[x][y] = tag
		}
	}

	var refLines, bridgeLines []string
	if len(sections) > 1 {
		refLines = sections[1]
	}
	if len(sections) > 2 {
		bridgeLines = sections[2]
	}

	if len(refLines) != teleportCount {
		return nil, fmt.Errorf("%w: %d teleports but %d references", ErrConfiguration, teleportCount, len(refLines))
	}
	for _, line := range refLines {
		pos, err := parseReference(line)
		if err != nil {
			return nil, err
		}
		if !t.InBound(pos.Col, pos.Row) {
			return nil, fmt.Errorf("%w: teleport reference (%d,%d) is outside the map", ErrConfiguration, pos.Col, pos.Row)
		}
		t.teleports = append(t.teleports, pos)
	}

	if len(bridgeLines) != bridgeCount {
		return nil, fmt.Errorf("%w: %d bridges but %d bridge lines", ErrConfiguration, bridgeCount, len(bridgeLines))
	}
	for _, line := range bridgeLines {
		spec, err := parseBridge(line)
		if err != nil {
			return nil, err
		}
		t.bridges = append(t.bridges, spec)
	}

	return t, nil
}

// ParseTemplateText parses a template from a newline separated text.
func ParseTemplateText(text string) (*Template, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return ParseTemplate(lines)
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(lines ...string) *Template {
	t, err := ParseTemplate(lines)
	if err != nil {
		panic(err)
	}
	return t
}

// splitSections cuts lines at separator rows. Blank trailing lines are dropped.
func splitSections(lines []string) [][]string {
	sections := [][]string{{}}
	for _, line := range lines {
		if isSeparator(line) {
			sections = append(sections, []string{})
			continue
		}
		cur := len(sections) - 1
		if cur > 0 && strings.TrimSpace(line) == "" {
			continue
		}
		sections[cur] = append(sections[cur], line)
	}
	return sections
}

func isSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.Trim(trimmed, string(separatorRune)) == ""
}

func parseReference(line string) (CellPosition, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return CellPosition{}, fmt.Errorf("%w: teleport reference %q needs two numbers", ErrConfiguration, line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return CellPosition{}, fmt.Errorf("%w: teleport reference %q: %v", ErrConfiguration, line, err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return CellPosition{}, fmt.Errorf("%w: teleport reference %q: %v", ErrConfiguration, line, err)
	}
	if x < 0 || y < 0 {
		return CellPosition{}, fmt.Errorf("%w: teleport reference %q is negative", ErrConfiguration, line)
	}
	return CellPosition{Row: y, Col: x}, nil
}

func parseBridge(line string) (BridgeSpec, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return BridgeSpec{}, fmt.Errorf("%w: bridge line %q needs an orientation and a direction", ErrConfiguration, line)
	}
	var spec BridgeSpec
	switch fields[0] {
	case "V", "v":
		spec.Vertical = true
	case "H", "h":
	default:
		return BridgeSpec{}, fmt.Errorf("%w: bridge orientation %q", ErrConfiguration, fields[0])
	}
	d, err := ParseDirection(fields[1])
	if err != nil {
		return BridgeSpec{}, err
	}
	spec.Facing = d
	return spec, nil
}

// InBound reports whether (x, y) lies inside the template.
func (t *Template) InBound(x, y int) bool {
	return x >= 0 && x < t.Width && y >= 0 && y < t.Height
}

// TagAt returns the tag at (x, y).
func (t *Template) TagAt(x, y int) Tag {
	return t.tags[x][y]
}

// Count returns how many cells carry tag.
func (t *Template) Count(tag Tag) int {
	n := 0
	for x := range t.tags {
		for y := range t.tags[x] {
			if t.tags[x][y] == tag {
				n++
			}
		}
	}
	return n
}

// Lines renders the template back to its text form.
func (t *Template) Lines() []string {
	lines := make([]string, 0, t.Height+len(t.teleports)+len(t.bridges)+2)
	for y := 0; y < t.Height; y++ {
		var b strings.Builder
		for x := 0; x < t.Width; x++ {
			b.WriteRune(rune(t.tags[x][y]))
		}
		lines = append(lines, b.String())
	}
	if len(t.teleports) == 0 && len(t.bridges) == 0 {
		return lines
	}
	sep := strings.Repeat(string(separatorRune), t.Width)
	lines = append(lines, sep)
	for _, ref := range t.teleports {
		lines = append(lines, fmt.Sprintf("%d %d", ref.Col, ref.Row))
	}
	if len(t.bridges) > 0 {
		lines = append(lines, sep)
		for _, b := range t.bridges {
			o := "H"
			if b.Vertical {
				o = "V"
			}
			lines = append(lines, fmt.Sprintf("%s %s", o, b.Facing.String()[:1]))
		}
	}
	return lines
}

// Mark records a template tag that needs a unit once the tile is on the board.
type Mark struct {
	Cell        *Cell      // Cell carrying the tag.
	Tag         Tag        // Tag found in the template.
	Destination *Cell      // Destination of a teleport, inside the same tile.
	Bridge      BridgeSpec // Spec of a bridge.
}

// Tile is a fresh instantiation of a template: new cells, not yet linked, and the
// marks that still need units.
type Tile struct {
	Cells [][]*Cell // Cells[x][y], local coordinates until placed on a board.
	Marks []Mark    // Marks in raster order.
}

// NewTile instantiates fresh cells for the template. Teleport destinations are
// resolved once, against the cells of the same tile.
func (t *Template) NewTile() *Tile {
	cells := make([][]*Cell, t.Width)
	for x := range cells {
		cells[x] = make([]*Cell, t.Height)
		for y := range cells[x] {
			terrain := Ground
			if t.tags[x][y] == TagWall {
				terrain = Wall
			}
			cells[x][y] = NewCell(x, y, terrain)
		}
	}

	tile := &Tile{Cells: cells}
	teleport, bridge := 0, 0
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			tag := t.tags[x][y]
			if tag == TagWall || tag == TagGround {
				continue
			}
			m := Mark{Cell: cells[x][y], Tag: tag}
			switch tag {
			case TagTeleport:
				ref := t.teleports[teleport]
				m.Destination = cells[ref.Col][ref.Row]
				teleport++
			case TagBridge:
				m.Bridge = t.bridges[bridge]
				bridge++
			}
			tile.Marks = append(tile.Marks, m)
		}
	}
	return tile
}
