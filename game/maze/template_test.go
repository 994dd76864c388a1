package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateTeleport(t *testing.T) {
	tpl, err := ParseTemplate([]string{
		"####",
		"#T #",
		"####",
		"----",
		"2 1",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, tpl.Width)
	assert.Equal(t, 3, tpl.Height)
	assert.Equal(t, TagTeleport, tpl.TagAt(1, 1))
	assert.Equal(t, 10, tpl.Count(TagWall))

	tile := tpl.NewTile()
	require.Len(t, tile.Marks, 1)
	m := tile.Marks[0]
	assert.Same(t, tile.Cells[1][1], m.Cell)
	assert.Same(t, tile.Cells[2][1], m.Destination)

	other := tpl.NewTile()
	assert.NotSame(t, m.Cell, other.Marks[0].Cell)
	assert.NotSame(t, m.Destination, other.Marks[0].Destination)
}

func TestParseTemplateBridges(t *testing.T) {
	tpl, err := ParseTemplateText("#####\n#TB #\n#B  #\n#####\n-----\n3 2\n-----\nV N\nH E\n")
	require.NoError(t, err)

	tile := tpl.NewTile()
	require.Len(t, tile.Marks, 3)
	assert.Equal(t, TagTeleport, tile.Marks[0].Tag)
	assert.Equal(t, BridgeSpec{Vertical: true, Facing: North}, tile.Marks[1].Bridge)
	assert.Equal(t, BridgeSpec{Vertical: false, Facing: East}, tile.Marks[2].Bridge)

	again, err := ParseTemplate(tpl.Lines())
	require.NoError(t, err)
	assert.Equal(t, tpl, again)
}

func TestParseTemplateErrors(t *testing.T) {
	cases := map[string][]string{
		"empty":                {},
		"ragged rows":          {"###", "##"},
		"unknown tag":          {"#X#"},
		"missing reference":    {"#T#"},
		"extra reference":      {"# #", "---", "1 0"},
		"reference out of map": {"#T#", "---", "3 0"},
		"negative reference":   {"#T#", "---", "-1 0"},
		"not a number":         {"#T#", "---", "a b"},
		"one number":           {"#T#", "---", "1"},
		"missing bridge":       {"#B#", "---", "---"},
		"bad orientation":      {"#B#", "---", "---", "X N"},
		"bad facing":           {"#B#", "---", "---", "V Q"},
		"too many sections":    {"# #", "---", "---", "---"},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplate(lines)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestMustParseTemplatePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseTemplate("#T#") })
}
