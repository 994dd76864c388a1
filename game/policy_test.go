package game

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticView struct {
	board   *maze.Board
	players []*Unit
}

func (v staticView) Board() *maze.Board { return v.board }
func (v staticView) Players() []*Unit   { return v.players }
func (v staticView) Hunters() []*Unit   { return nil }

func TestPolicies(t *testing.T) {
	tpl, err := maze.ParseTemplate([]string{
		"#######",
		"#  #  #",
		"## # ##",
		"#     #",
		"#######",
	})
	require.NoError(t, err)
	b, _, err := maze.FromTemplate(tpl)
	require.NoError(t, err)

	t.Run("Straight", func(t *testing.T) {
		u := NewProjectile(nil, maze.South, time.Second)
		d, ok := Straight{}.NextMove(u, staticView{board: b})
		assert.True(t, ok)
		assert.Equal(t, maze.South, d)
	})

	t.Run("Pursue takes the shortest path", func(t *testing.T) {
		p := NewPlayer(0, time.Second)
		p.Occupy(b.MustCellAt(5, 1))
		defer p.LeaveCell()
		h := NewHunter(Pursue{}, time.Second, 0)
		h.Occupy(b.MustCellAt(2, 1))
		defer h.LeaveCell()

		d, ok := h.policy.NextMove(h, staticView{board: b, players: []*Unit{p}})
		assert.True(t, ok)
		assert.Equal(t, maze.South, d)
	})

	t.Run("Pursue ignores dead players", func(t *testing.T) {
		p := NewPlayer(0, time.Second)
		p.Occupy(b.MustCellAt(1, 1))
		p.kill()
		defer p.LeaveCell()
		h := NewHunter(Pursue{}, time.Second, 0)
		h.Occupy(b.MustCellAt(2, 1))
		h.setFacing(maze.East)
		defer h.LeaveCell()

		d, ok := h.policy.NextMove(h, staticView{board: b, players: []*Unit{p}})
		assert.True(t, ok)
		assert.Equal(t, maze.South, d, "wandering avoids turning back")
	})

	t.Run("Random turns back in a dead end", func(t *testing.T) {
		h := NewHunter(Random{}, time.Second, 0)
		h.Occupy(b.MustCellAt(1, 1))
		h.setFacing(maze.West)
		defer h.LeaveCell()

		d, ok := h.policy.NextMove(h, staticView{board: b})
		assert.True(t, ok)
		assert.Equal(t, maze.East, d)
	})

	t.Run("Steered waits for a direction", func(t *testing.T) {
		p := NewPlayer(0, time.Second)
		_, ok := p.policy.NextMove(p, staticView{board: b})
		assert.False(t, ok)
	})
}

func TestInterval(t *testing.T) {
	h := NewHunter(Random{}, 100*time.Millisecond, 300*time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, h.Interval())

	h.addSpeed(1)
	assert.Equal(t, 50*time.Millisecond, h.Interval())

	h.setFear(true, false)
	assert.Equal(t, 150*time.Millisecond, h.Interval())
}

func TestTuningValidate(t *testing.T) {
	assert.NoError(t, DefaultTuning().Validate())

	tests := []struct {
		name   string
		modify func(*Tuning)
	}{
		{"zero interval", func(t *Tuning) { t.PlayerInterval = 0 }},
		{"warning after expiry", func(t *Tuning) { t.LongWarning = t.LongExpiry + 1 }},
		{"no retries", func(t *Tuning) { t.SpawnRetries = 0 }},
		{"negative lives", func(t *Tuning) { t.PlayerLives = -1 }},
		{"no fruit", func(t *Tuning) { t.Fruits = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tt.modify(&tuning)
			assert.ErrorIs(t, tuning.Validate(), maze.ErrConfiguration)
		})
	}
}
