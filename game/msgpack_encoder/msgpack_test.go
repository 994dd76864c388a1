package msgpack

import (
	"testing"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgPackSnapshot(t *testing.T) {
	enc := &MsgPack{}

	t.Run("Round trip", func(t *testing.T) {
		want := game.Snapshot{
			ID:          uuid.New(),
			Width:       5,
			Height:      3,
			Running:     true,
			Infinite:    true,
			Mode:        game.HunterActive,
			PelletsLeft: 1,
			Rows:        []string{"#####", "#P G#", "#####"},
			Units: []game.UnitState{
				{ID: uuid.New(), Kind: game.KindPlayer, X: 1, Y: 1, OnBoard: true, Facing: maze.South, Score: 10, Alive: true},
				{ID: uuid.New(), Kind: game.KindHunter, X: 3, Y: 1, OnBoard: true, Alive: true, Feared: true},
				{ID: uuid.New(), Kind: game.KindProjectile, Facing: maze.West},
			},
		}
		b, err := enc.MarshalSnapshot(want)
		require.NoError(t, err)

		got, err := enc.UnmarshalSnapshot(b)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Garbage input", func(t *testing.T) {
		_, err := enc.UnmarshalSnapshot([]byte("not msgpack"))
		assert.Error(t, err)
	})
}
