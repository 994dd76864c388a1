package maze

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	game_i "github.com/beka-birhanu/vinom-interfaces/game"
	wilsonmaze "github.com/beka-birhanu/wilson-maze"
)

const (
	maxRooms = 20 // Maximum number of rooms on either axis.
)

// GeneratorConfig configures a generated template.
type GeneratorConfig struct {
	Width       int     // Width in rooms; the template is 2*Width+1 cells wide.
	Height      int     // Height in rooms; the template is 2*Height+1 cells tall.
	PelletProb  float32 // Base probability of a small pellet over a power pellet (0.0 to 1.0).
	Hunters     int     // Number of hunter spawns.
	OpenTunnels bool    // Open the middle of every border so units can wrap around.
}

// room is one maze room with its four walls.
type room struct {
	walls [4]bool // walls[d] is true while the wall towards d stands.
}

// layout is the room graph of a carved maze.
type layout struct {
	width  int
	height int
	rooms  [][]*room // rooms[row][col]
}

// Generate creates a random template: a perfect maze carved with Wilson's algorithm,
// a player at the center, hunters spread over the corners and a pellet in every other
// room. Rooms close to the center are less likely to hold a power pellet.
func Generate(cfg GeneratorConfig) (*Template, error) {
	if min(cfg.Width, cfg.Height) <= 1 || max(cfg.Width, cfg.Height) > maxRooms {
		return nil, fmt.Errorf("%w: invalid maze dimensions %dx%d", ErrConfiguration, cfg.Width, cfg.Height)
	}
	if cfg.PelletProb > 1 || cfg.PelletProb < 0 {
		return nil, fmt.Errorf("%w: pellet probability %v", ErrConfiguration, cfg.PelletProb)
	}
	if cfg.Hunters < 0 || cfg.Hunters > cfg.Width*cfg.Height-1 {
		return nil, fmt.Errorf("%w: %d hunters do not fit", ErrConfiguration, cfg.Hunters)
	}

	carved, err := wilsonmaze.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return ParseTemplate(readLayout(carved, cfg.Width, cfg.Height).lines(cfg))
}

// readLayout copies the open passages of a carved maze. Only the east and south
// passages of every room are checked; the west and north ones mirror a neighbour.
func readLayout(carved game_i.Maze, width, height int) *layout {
	rooms := make([][]*room, height)
	for r := range rooms {
		rooms[r] = make([]*room, width)
		for c := range rooms[r] {
			rooms[r][c] = &room{walls: [4]bool{true, true, true, true}}
		}
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			pos := &wilsonmaze.CellPosition{}
			pos.SetRow(int32(r))
			pos.SetCol(int32(c))
			if _, err := carved.NewValidMove(pos, East.String()); err == nil {
				rooms[r][c].walls[East] = false
				rooms[r][c+1].walls[West] = false
			}
			if _, err := carved.NewValidMove(pos, South.String()); err == nil {
				rooms[r][c].walls[South] = false
				rooms[r+1][c].walls[North] = false
			}
		}
	}
	return &layout{width: width, height: height, rooms: rooms}
}

func (m *layout) randomPosition() CellPosition {
	return CellPosition{Row: rand.Intn(m.height), Col: rand.Intn(m.width)}
}

// lines renders the maze as template rows. Room (r, c) lands on cell (2c+1, 2r+1).
func (m *layout) lines(cfg GeneratorConfig) []string {
	w, h := 2*m.width+1, 2*m.height+1
	tags := make([][]Tag, h)
	for y := range tags {
		tags[y] = make([]Tag, w)
		for x := range tags[y] {
			tags[y][x] = TagWall
		}
	}

	center := CellPosition{Row: m.height / 2, Col: m.width / 2}
	hunters := m.hunterRooms(cfg.Hunters, center)
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			pos := CellPosition{Row: r, Col: c}
			x, y := 2*c+1, 2*r+1
			switch {
			case pos == center:
				tags[y][x] = TagPlayer
			case hunters[pos]:
				tags[y][x] = TagHunter
			case rand.Float32() > calcProb(cfg.PelletProb, pos, m.width, m.height):
				tags[y][x] = TagPower
			default:
				tags[y][x] = TagPellet
			}
			rm := m.rooms[r][c]
			if !rm.walls[East] {
				tags[y][x+1] = TagGround
			}
			if !rm.walls[South] {
				tags[y+1][x] = TagGround
			}
		}
	}

	if cfg.OpenTunnels {
		midX, midY := 2*center.Col+1, 2*center.Row+1
		tags[midY][0], tags[midY][w-1] = TagGround, TagGround
		tags[0][midX], tags[h-1][midX] = TagGround, TagGround
	}

	lines := make([]string, h)
	for y := range tags {
		var b strings.Builder
		for _, t := range tags[y] {
			b.WriteRune(rune(t))
		}
		lines[y] = b.String()
	}
	return lines
}

// hunterRooms picks n rooms, starting from the corners and moving inwards.
func (m *layout) hunterRooms(n int, exclude CellPosition) map[CellPosition]bool {
	picked := make(map[CellPosition]bool, n)
	for ring := 0; len(picked) < n && ring <= max(m.width, m.height); ring++ {
		corners := []CellPosition{
			{Row: ring, Col: ring},
			{Row: ring, Col: m.width - 1 - ring},
			{Row: m.height - 1 - ring, Col: ring},
			{Row: m.height - 1 - ring, Col: m.width - 1 - ring},
		}
		for _, p := range corners {
			if len(picked) == n {
				break
			}
			if p.Row < 0 || p.Row >= m.height || p.Col < 0 || p.Col >= m.width || p == exclude {
				continue
			}
			picked[p] = true
		}
	}
	for len(picked) < n {
		p := m.randomPosition()
		if p != exclude {
			picked[p] = true
		}
	}
	return picked
}

// calcProb scales the base pellet probability by the distance of the room to the
// center. Rooms closer to the center get a higher probability.
func calcProb(p float32, pos CellPosition, width, height int) float32 {
	midRow, midCol := height/2, width/2

	distToMid := math.Abs(float64(pos.Row-midRow)) + math.Abs(float64(pos.Col-midCol))
	maxDist := float64(midRow + midCol)
	if maxDist == 0 {
		return 1
	}

	normalizedDist := 1.0 - distToMid/maxDist
	return p + (1-p)*float32(normalizedDist)/10
}
