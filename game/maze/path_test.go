package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStep(t *testing.T) {
	b, _ := testBoard(t,
		"#######",
		"#  #  #",
		"## # ##",
		"#     #",
		"#######",
	)

	d, ok := NextStep(b.MustCellAt(1, 1), b.MustCellAt(5, 1), 0)
	assert.True(t, ok)
	assert.Equal(t, East, d)

	d, ok = NextStep(b.MustCellAt(2, 1), b.MustCellAt(4, 1), 0)
	assert.True(t, ok)
	assert.Equal(t, South, d)

	_, ok = NextStep(b.MustCellAt(2, 1), b.MustCellAt(4, 1), 3)
	assert.False(t, ok, "search limit reached")

	_, ok = NextStep(b.MustCellAt(1, 1), b.MustCellAt(1, 1), 0)
	assert.False(t, ok)

	_, ok = NextStep(b.MustCellAt(1, 1), b.MustCellAt(0, 0), 0)
	assert.False(t, ok)
}

func TestReachable(t *testing.T) {
	b, _ := testBoard(t,
		"#####",
		"# # #",
		"#####",
	)
	assert.False(t, Reachable(b.MustCellAt(1, 1), b.MustCellAt(3, 1), 0))
	assert.True(t, Reachable(b.MustCellAt(1, 1), b.MustCellAt(1, 1), 0))

	open, _ := testBoard(t, "     ")
	assert.True(t, Reachable(open.MustCellAt(0, 0), open.MustCellAt(4, 0), 0))
	d, ok := NextStep(open.MustCellAt(0, 0), open.MustCellAt(4, 0), 0)
	assert.True(t, ok)
	assert.Equal(t, West, d, "the wrapped path is shorter")
}
