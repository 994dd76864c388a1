package main

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/gdamore/tcell/v2"
)

// session binds one level to the terminal.
type session struct {
	screen  tcell.Screen
	level   *game.Level
	player  *game.Unit
	status  *statusObserver
	margin  int
	message string
}

var keyDirections = map[tcell.Key]maze.Direction{
	tcell.KeyUp:    maze.North,
	tcell.KeyRight: maze.East,
	tcell.KeyDown:  maze.South,
	tcell.KeyLeft:  maze.West,
}

var runeDirections = map[rune]maze.Direction{
	'w': maze.North,
	'd': maze.East,
	's': maze.South,
	'a': maze.West,
}

func (s *session) loop() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !s.handle(ev) {
				return
			}
		case <-ticker.C:
			s.grow()
			s.draw()
		}
	}
}

// handle applies one terminal event and reports whether the game goes on.
func (s *session) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if d, ok := keyDirections[ev.Key()]; ok {
			s.steer(d)
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch r := ev.Rune(); r {
		case 'q':
			return false
		case ' ':
			if _, err := s.level.Shoot(s.player); err != nil {
				s.message = err.Error()
			}
		case 'p':
			if s.level.IsRunning() {
				s.level.Stop()
			} else if outcome(s.status.outcome.Load()) == playing {
				s.level.Start()
			}
		default:
			if d, ok := runeDirections[r]; ok {
				s.steer(d)
			}
		}
	}
	return true
}

func (s *session) steer(d maze.Direction) {
	if err := s.level.Steer(s.player, d); err != nil {
		s.message = err.Error()
		return
	}
	s.message = ""
}

// grow extends an infinite board towards the edges the player gets close to.
func (s *session) grow() {
	if !s.level.Infinite() || !s.level.IsRunning() {
		return
	}
	for _, d := range s.level.NearEdge(s.player, s.margin) {
		if err := s.level.Extend(d); err != nil {
			s.message = err.Error()
			return
		}
	}
}

var glyphStyles = map[rune]tcell.Style{
	rune(maze.TagWall):     tcell.StyleDefault.Foreground(tcell.ColorBlue),
	rune(maze.TagPellet):   tcell.StyleDefault.Foreground(tcell.ColorWhite),
	rune(maze.TagPower):    tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	rune(maze.TagPlayer):   tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	rune(maze.TagHunter):   tcell.StyleDefault.Foreground(tcell.ColorRed),
	rune(maze.TagTeleport): tcell.StyleDefault.Foreground(tcell.ColorPurple),
	rune(maze.TagHole):     tcell.StyleDefault.Foreground(tcell.ColorGray),
	rune(maze.TagBridge):   tcell.StyleDefault.Foreground(tcell.ColorOlive),
	'F':                    tcell.StyleDefault.Foreground(tcell.ColorGreen),
	'*':                    tcell.StyleDefault.Foreground(tcell.ColorOrange),
}

func (s *session) draw() {
	snap := s.level.Snapshot()
	s.screen.Clear()

	// Keep the player on screen when the board outgrows the terminal.
	sw, sh := s.screen.Size()
	ox, oy := 0, 1
	if st := s.playerState(snap); st != nil {
		if snap.Width > sw {
			ox = min(0, max(sw-snap.Width, sw/2-st.X))
		}
		if snap.Height > sh-2 {
			oy = 1 + min(0, max(sh-2-snap.Height, (sh-2)/2-st.Y))
		}
	}

	for y, row := range snap.Rows {
		x := 0
		for _, r := range row {
			style, ok := glyphStyles[r]
			if !ok {
				style = tcell.StyleDefault
			}
			s.screen.SetContent(ox+x, oy+y, r, nil, style)
			x++
		}
	}
	for _, u := range snap.Units {
		if u.Kind != game.KindHunter || !u.OnBoard || !u.Feared {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorNavy).Background(tcell.ColorSilver)
		if u.Warning {
			style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
		}
		s.screen.SetContent(ox+u.X, oy+u.Y, rune(maze.TagHunter), nil, style)
	}

	s.text(0, 0, s.header(snap))
	s.text(0, sh-1, s.footer())
	s.screen.Show()
}

func (s *session) playerState(snap game.Snapshot) *game.UnitState {
	for i := range snap.Units {
		if snap.Units[i].ID == s.player.ID {
			return &snap.Units[i]
		}
	}
	return nil
}

func (s *session) header(snap game.Snapshot) string {
	st := s.playerState(snap)
	if st == nil {
		return ""
	}
	h := fmt.Sprintf("score %d  lives %d  pellets %d  mode %s", st.Score, st.Lives, snap.PelletsLeft, snap.Mode)
	if st.Shooting {
		h += "  [armed]"
	}
	if snap.Infinite {
		h += fmt.Sprintf("  board %dx%d", snap.Width, snap.Height)
	}
	return h
}

func (s *session) footer() string {
	switch outcome(s.status.outcome.Load()) {
	case won:
		return "level cleared, q to quit"
	case lost:
		return "caught, q to quit"
	}
	if s.message != "" {
		return s.message
	}
	if !s.level.IsRunning() {
		return "paused, p to resume"
	}
	return "arrows or wasd move, space shoots, p pauses, q quits"
}

func (s *session) text(x, y int, msg string) {
	for _, r := range msg {
		s.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		x++
	}
}
