package game

import (
	"math/rand"

	"github.com/beka-birhanu/vinom-chase/game/maze"
)

// View is the read-only board state handed to a policy. It is only valid for the
// duration of a NextMove call.
type View interface {
	Board() *maze.Board
	Players() []*Unit
	Hunters() []*Unit
}

// Policy decides the next step of an actor. ok is false when the actor stays put.
type Policy interface {
	NextMove(u *Unit, v View) (d maze.Direction, ok bool)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(u *Unit, v View) (maze.Direction, bool)

// NextMove implements Policy.
func (f PolicyFunc) NextMove(u *Unit, v View) (maze.Direction, bool) {
	return f(u, v)
}

// Straight keeps going in the facing direction.
type Straight struct{}

// NextMove implements Policy.
func (Straight) NextMove(u *Unit, _ View) (maze.Direction, bool) {
	return u.Facing(), true
}

// steered follows the last direction requested through Level.Steer.
type steered struct {
	dir maze.Direction
	set bool
}

func (s *steered) NextMove(*Unit, View) (maze.Direction, bool) {
	return s.dir, s.set
}

// Random wanders: it picks a random open direction, avoiding turning back when it can.
type Random struct{}

// NextMove implements Policy.
func (Random) NextMove(u *Unit, _ View) (maze.Direction, bool) {
	return wander(u)
}

func wander(u *Unit) (maze.Direction, bool) {
	c := u.Cell()
	if c == nil {
		return 0, false
	}
	back := u.Facing().Opposite()
	var open []maze.Direction
	canGoBack := false
	for _, d := range maze.Directions {
		if !c.Neighbor(d).Accessible() {
			continue
		}
		if d == back {
			canGoBack = true
			continue
		}
		open = append(open, d)
	}
	if len(open) == 0 {
		return back, canGoBack
	}
	return open[rand.Intn(len(open))], true
}

// Pursue chases the first living player it can reach along a shortest path and wanders while
// feared or when no player can be reached.
type Pursue struct {
	Limit int // Maximum number of cells searched, zero for no bound.
}

// NextMove implements Policy.
func (p Pursue) NextMove(u *Unit, v View) (maze.Direction, bool) {
	from := u.Cell()
	if from == nil {
		return 0, false
	}
	if u.Feared() {
		return wander(u)
	}
	for _, player := range v.Players() {
		to := player.Cell()
		if !player.Alive() || to == nil {
			continue
		}
		if d, ok := maze.NextStep(from, to, p.Limit); ok {
			return d, true
		}
	}
	return wander(u)
}
