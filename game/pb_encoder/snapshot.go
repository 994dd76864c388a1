package pb

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/google/uuid"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot message")

func snapshotToMap(s game.Snapshot) map[string]any {
	rows := make([]any, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = r
	}
	units := make([]any, len(s.Units))
	for i, u := range s.Units {
		units[i] = unitToMap(u)
	}
	return map[string]any{
		"id":          s.ID.String(),
		"width":       s.Width,
		"height":      s.Height,
		"running":     s.Running,
		"infinite":    s.Infinite,
		"won":         s.Won,
		"mode":        int(s.Mode),
		"pelletsLeft": s.PelletsLeft,
		"rows":        rows,
		"units":       units,
	}
}

func unitToMap(u game.UnitState) map[string]any {
	return map[string]any{
		"id":        u.ID.String(),
		"kind":      int(u.Kind),
		"x":         u.X,
		"y":         u.Y,
		"onBoard":   u.OnBoard,
		"facing":    int(u.Facing),
		"score":     u.Score,
		"lives":     u.Lives,
		"alive":     u.Alive,
		"feared":    u.Feared,
		"warning":   u.Warning,
		"exploding": u.Exploding,
		"shooting":  u.Shooting,
		"bridge":    int(u.Bridge),
	}
}

// fields reads typed values out of a decoded Struct, remembering the first failure.
type fields struct {
	m   map[string]any
	err error
}

func (f *fields) fail(key, want string) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: %q is not a %s", ErrMalformedSnapshot, key, want)
	}
}

func (f *fields) int(key string) int {
	v, ok := f.m[key].(float64)
	if !ok {
		f.fail(key, "number")
	}
	return int(v)
}

func (f *fields) bool(key string) bool {
	v, ok := f.m[key].(bool)
	if !ok {
		f.fail(key, "bool")
	}
	return v
}

func (f *fields) id(key string) uuid.UUID {
	s, ok := f.m[key].(string)
	if !ok {
		f.fail(key, "string")
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		f.fail(key, "uuid")
	}
	return id
}

func (f *fields) list(key string) []any {
	v, ok := f.m[key].([]any)
	if !ok && f.m[key] != nil {
		f.fail(key, "list")
	}
	return v
}

func snapshotFromMap(m map[string]any) (game.Snapshot, error) {
	f := &fields{m: m}
	s := game.Snapshot{
		ID:          f.id("id"),
		Width:       f.int("width"),
		Height:      f.int("height"),
		Running:     f.bool("running"),
		Infinite:    f.bool("infinite"),
		Won:         f.bool("won"),
		Mode:        game.Mode(f.int("mode")),
		PelletsLeft: f.int("pelletsLeft"),
	}
	for _, r := range f.list("rows") {
		row, ok := r.(string)
		if !ok {
			f.fail("rows", "list of strings")
			break
		}
		s.Rows = append(s.Rows, row)
	}
	for _, raw := range f.list("units") {
		um, ok := raw.(map[string]any)
		if !ok {
			f.fail("units", "list of structs")
			break
		}
		uf := &fields{m: um}
		s.Units = append(s.Units, game.UnitState{
			ID:        uf.id("id"),
			Kind:      game.Kind(uf.int("kind")),
			X:         uf.int("x"),
			Y:         uf.int("y"),
			OnBoard:   uf.bool("onBoard"),
			Facing:    maze.Direction(uf.int("facing")),
			Score:     uf.int("score"),
			Lives:     uf.int("lives"),
			Alive:     uf.bool("alive"),
			Feared:    uf.bool("feared"),
			Warning:   uf.bool("warning"),
			Exploding: uf.bool("exploding"),
			Shooting:  uf.bool("shooting"),
			Bridge:    game.BridgePosition(uf.int("bridge")),
		})
		if uf.err != nil && f.err == nil {
			f.err = uf.err
		}
	}
	if f.err != nil {
		return game.Snapshot{}, f.err
	}
	return s, nil
}
