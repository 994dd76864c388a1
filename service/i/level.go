package i

import (
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/google/uuid"
)

// LevelOptions describes a level to create. Template wins over the generator size.
type LevelOptions struct {
	Infinite bool   // Unbounded play on a growing board.
	Width    int    // Rooms across of a generated maze.
	Height   int    // Rooms down of a generated maze.
	Hunters  int    // Hunters of a generated maze.
	Template string // Map template text.
}

// LevelManager runs the levels of signed in players. Every operation but Snapshot and
// Subscribe is reserved to the owner of the level.
type LevelManager interface {
	Create(owner uuid.UUID, username string, opts LevelOptions) (uuid.UUID, error)
	Start(id, owner uuid.UUID) error
	Stop(id, owner uuid.UUID) error
	Steer(id, owner uuid.UUID, d maze.Direction) error
	Shoot(id, owner uuid.UUID) error
	Extend(id, owner uuid.UUID, d maze.Direction) error
	Close(id, owner uuid.UUID) error
	Snapshot(id uuid.UUID) (game.Snapshot, error)
	// Subscribe streams snapshots of a level until cancel is called or the level closes.
	Subscribe(id uuid.UUID) (snapshots <-chan game.Snapshot, cancel func(), err error)
}
