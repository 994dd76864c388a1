package game

import (
	"strings"

	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/google/uuid"
)

// UnitState is the read model of one actor.
type UnitState struct {
	ID        uuid.UUID      // Identifier of the actor.
	Kind      Kind           // Variant of the actor.
	X, Y      int            // Coordinate, meaningless when OnBoard is false.
	OnBoard   bool           // Whether the actor stands on a cell.
	Facing    maze.Direction // Direction the actor faces.
	Score     int            // Points of a player.
	Lives     int            // Extra lives of a player.
	Alive     bool           // Liveness.
	Feared    bool           // Hunter vulnerability.
	Warning   bool           // Hunter vulnerability about to end.
	Exploding bool           // Hunter was shot.
	Shooting  bool           // Player may shoot.
	Bridge    BridgePosition // Elevation relative to a bridge.
}

// Snapshot is a consistent read model of a level for presenters and encoders.
type Snapshot struct {
	ID          uuid.UUID   // Identifier of the level.
	Width       int         // Board width.
	Height      int         // Board height.
	Running     bool        // Whether the level is in progress.
	Infinite    bool        // Whether the level runs in infinite mode.
	Won         bool        // Whether the level was won.
	Mode        Mode        // Power mode.
	PelletsLeft int         // Small and power pellets on the board.
	Rows        []string    // One rune per cell, as printed by the board.
	Units       []UnitState // Players, hunters and projectiles.
}

// Encoder serializes snapshots for transport.
type Encoder interface {
	MarshalSnapshot(s Snapshot) ([]byte, error)
	UnmarshalSnapshot(b []byte) (Snapshot, error)
}

// Snapshot captures the level between two moves. It must not be called by observers.
func (l *Level) Snapshot() Snapshot {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	s := Snapshot{
		ID:          l.ID,
		Width:       l.board.Width(),
		Height:      l.board.Height(),
		Running:     l.IsRunning(),
		Infinite:    l.infinite,
		Won:         l.won,
		Mode:        l.mode,
		PelletsLeft: l.remainingPellets(),
		Rows:        strings.Split(strings.TrimSuffix(l.board.String(), "\n"), "\n"),
	}
	for _, group := range [][]*Unit{l.players, l.hunters, l.projectiles} {
		for _, u := range group {
			s.Units = append(s.Units, stateOf(u))
		}
	}
	return s
}

func stateOf(u *Unit) UnitState {
	st := UnitState{
		ID:        u.ID,
		Kind:      u.Kind,
		Facing:    u.Facing(),
		Score:     u.Score(),
		Lives:     u.Lives(),
		Alive:     u.Alive(),
		Feared:    u.Feared(),
		Warning:   u.Warning(),
		Exploding: u.Exploding(),
		Shooting:  u.Shooting(),
		Bridge:    u.BridgePosition(),
	}
	if c := u.Cell(); c != nil {
		st.X, st.Y, st.OnBoard = c.X, c.Y, true
	}
	return st
}
