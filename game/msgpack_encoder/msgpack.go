package msgpack

import (
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

var _ game.Encoder = &MsgPack{}

// MsgPack encodes snapshots with MessagePack, the compact format used for the live stream.
type MsgPack struct{}

type unitWire struct {
	ID        string `msgpack:"id"`
	Kind      uint8  `msgpack:"k"`
	X         int    `msgpack:"x"`
	Y         int    `msgpack:"y"`
	OnBoard   bool   `msgpack:"on"`
	Facing    uint8  `msgpack:"f"`
	Score     int    `msgpack:"s,omitempty"`
	Lives     int    `msgpack:"l,omitempty"`
	Alive     bool   `msgpack:"a"`
	Feared    bool   `msgpack:"fe,omitempty"`
	Warning   bool   `msgpack:"w,omitempty"`
	Exploding bool   `msgpack:"ex,omitempty"`
	Shooting  bool   `msgpack:"sh,omitempty"`
	Bridge    uint8  `msgpack:"b,omitempty"`
}

type snapshotWire struct {
	ID          string     `msgpack:"id"`
	Width       int        `msgpack:"w"`
	Height      int        `msgpack:"h"`
	Running     bool       `msgpack:"run"`
	Infinite    bool       `msgpack:"inf"`
	Won         bool       `msgpack:"won"`
	Mode        uint8      `msgpack:"mode"`
	PelletsLeft int        `msgpack:"left"`
	Rows        []string   `msgpack:"rows"`
	Units       []unitWire `msgpack:"units"`
}

// MarshalSnapshot implements game.Encoder.
func (m *MsgPack) MarshalSnapshot(s game.Snapshot) ([]byte, error) {
	w := snapshotWire{
		ID:          s.ID.String(),
		Width:       s.Width,
		Height:      s.Height,
		Running:     s.Running,
		Infinite:    s.Infinite,
		Won:         s.Won,
		Mode:        uint8(s.Mode),
		PelletsLeft: s.PelletsLeft,
		Rows:        s.Rows,
	}
	for _, u := range s.Units {
		w.Units = append(w.Units, unitWire{
			ID:        u.ID.String(),
			Kind:      uint8(u.Kind),
			X:         u.X,
			Y:         u.Y,
			OnBoard:   u.OnBoard,
			Facing:    uint8(u.Facing),
			Score:     u.Score,
			Lives:     u.Lives,
			Alive:     u.Alive,
			Feared:    u.Feared,
			Warning:   u.Warning,
			Exploding: u.Exploding,
			Shooting:  u.Shooting,
			Bridge:    uint8(u.Bridge),
		})
	}
	return msgpack.Marshal(&w)
}

// UnmarshalSnapshot implements game.Encoder.
func (m *MsgPack) UnmarshalSnapshot(b []byte) (game.Snapshot, error) {
	var w snapshotWire
	if err := msgpack.Unmarshal(b, &w); err != nil {
		return game.Snapshot{}, err
	}
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return game.Snapshot{}, err
	}
	s := game.Snapshot{
		ID:          id,
		Width:       w.Width,
		Height:      w.Height,
		Running:     w.Running,
		Infinite:    w.Infinite,
		Won:         w.Won,
		Mode:        game.Mode(w.Mode),
		PelletsLeft: w.PelletsLeft,
		Rows:        w.Rows,
	}
	for _, u := range w.Units {
		uid, err := uuid.Parse(u.ID)
		if err != nil {
			return game.Snapshot{}, err
		}
		s.Units = append(s.Units, game.UnitState{
			ID:        uid,
			Kind:      game.Kind(u.Kind),
			X:         u.X,
			Y:         u.Y,
			OnBoard:   u.OnBoard,
			Facing:    maze.Direction(u.Facing),
			Score:     u.Score,
			Lives:     u.Lives,
			Alive:     u.Alive,
			Feared:    u.Feared,
			Warning:   u.Warning,
			Exploding: u.Exploding,
			Shooting:  u.Shooting,
			Bridge:    game.BridgePosition(u.Bridge),
		})
	}
	return s, nil
}
