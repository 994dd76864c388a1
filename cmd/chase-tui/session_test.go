package main

import (
	"os"
	"testing"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, infinite bool, lines ...string) *session {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	l, err := logger.New("TEST", "", f)
	require.NoError(t, err)

	tuning := game.DefaultTuning()
	level, err := game.NewLevel(maze.MustParseTemplate(lines...), game.Config{
		Tuning:       tuning,
		Infinite:     infinite,
		Logger:       l,
		HunterPolicy: func() game.Policy { return game.Straight{} },
	})
	require.NoError(t, err)
	t.Cleanup(level.Stop)
	player := level.NewPlayer()
	require.NoError(t, level.RegisterPlayer(player))
	status := &statusObserver{level: level}
	level.AddObserver(status)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(60, 12)

	return &session{screen: screen, level: level, player: player, status: status, margin: 1}
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestHandleKeys(t *testing.T) {
	s := newTestSession(t, false, "#####", "#P.G#", "#####")

	assert.True(t, s.handle(key(tcell.KeyRight, 0)))
	assert.Empty(t, s.message)

	assert.True(t, s.handle(key(tcell.KeyRune, ' ')))
	assert.Equal(t, game.ErrNotArmed.Error(), s.message)

	assert.True(t, s.handle(key(tcell.KeyRune, 'p')))
	assert.True(t, s.level.IsRunning())
	assert.True(t, s.handle(key(tcell.KeyRune, 'p')))
	assert.False(t, s.level.IsRunning())

	assert.False(t, s.handle(key(tcell.KeyRune, 'q')))
	assert.False(t, s.handle(key(tcell.KeyEscape, 0)))
}

func TestPauseAfterOutcome(t *testing.T) {
	s := newTestSession(t, false, "#####", "#P.G#", "#####")
	s.status.outcome.Store(int32(lost))

	s.handle(key(tcell.KeyRune, 'p'))
	assert.False(t, s.level.IsRunning())
	assert.Equal(t, "caught, q to quit", s.footer())
}

func TestDraw(t *testing.T) {
	s := newTestSession(t, false, "#####", "#P.G#", "#####")
	s.draw()

	sim := s.screen.(tcell.SimulationScreen)
	cells, width, _ := sim.GetContents()
	at := func(x, y int) rune { return cells[y*width+x].Runes[0] }

	assert.Equal(t, 'P', at(1, 2))
	assert.Equal(t, '.', at(2, 2))
	assert.Equal(t, 'G', at(3, 2))
	assert.Equal(t, '#', at(0, 1))
	assert.Equal(t, 's', at(0, 0))
	assert.Contains(t, s.footer(), "paused")
}

func TestGrow(t *testing.T) {
	s := newTestSession(t, true, "#####", "#...#", "#.P.#", "#...#", "#####")
	s.margin = 2

	s.grow()
	assert.Equal(t, 5, s.level.Snapshot().Width, "a stopped level does not grow")

	s.level.Start()
	s.grow()
	snap := s.level.Snapshot()
	assert.Greater(t, snap.Width*snap.Height, 25)
}
