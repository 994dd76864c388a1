package maze

import (
	"testing"

	wilsonmaze "github.com/beka-birhanu/wilson-maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	cfg := GeneratorConfig{Width: 6, Height: 5, PelletProb: 0.9, Hunters: 3, OpenTunnels: true}
	tpl, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, 13, tpl.Width)
	assert.Equal(t, 11, tpl.Height)
	assert.Equal(t, 1, tpl.Count(TagPlayer))
	assert.Equal(t, 3, tpl.Count(TagHunter))
	assert.Equal(t, 6*5-4, tpl.Count(TagPellet)+tpl.Count(TagPower))

	b, _, err := FromTemplate(tpl)
	require.NoError(t, err)

	// A perfect maze connects every room.
	start := b.MustCellAt(1, 1)
	for r := 0; r < cfg.Height; r++ {
		for c := 0; c < cfg.Width; c++ {
			assert.True(t, Reachable(start, b.MustCellAt(2*c+1, 2*r+1), 0), "room (%d,%d)", r, c)
		}
	}

	// Tunnels open the middle of the borders.
	assert.True(t, b.MustCellAt(0, 5).Accessible())
	assert.True(t, b.MustCellAt(7, 0).Accessible())
}

func TestGenerateInvalid(t *testing.T) {
	for _, cfg := range []GeneratorConfig{
		{Width: 1, Height: 5},
		{Width: 5, Height: 21},
		{Width: 5, Height: 5, PelletProb: 1.5},
		{Width: 2, Height: 2, Hunters: 4},
	} {
		_, err := Generate(cfg)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}

func TestCalcProb(t *testing.T) {
	center := calcProb(0.5, CellPosition{Row: 5, Col: 5}, 10, 10)
	corner := calcProb(0.5, CellPosition{Row: 0, Col: 0}, 10, 10)
	assert.Greater(t, center, corner)
	assert.InDelta(t, 0.5, corner, 1e-6)
}

func TestReadLayout(t *testing.T) {
	carved, err := wilsonmaze.New(7, 4)
	require.NoError(t, err)
	m := readLayout(carved, 7, 4)

	passages := 0
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			rm := m.rooms[r][c]
			if c == m.width-1 {
				assert.True(t, rm.walls[East])
			} else if !rm.walls[East] {
				passages++
				assert.False(t, m.rooms[r][c+1].walls[West])
			}
			if r == m.height-1 {
				assert.True(t, rm.walls[South])
			} else if !rm.walls[South] {
				passages++
				assert.False(t, m.rooms[r+1][c].walls[North])
			}
		}
	}
	// A spanning tree of the rooms.
	assert.Equal(t, 7*4-1, passages)
}
