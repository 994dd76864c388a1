// Package levelapi exposes levels over HTTP and websockets.
package levelapi

import (
	"github.com/beka-birhanu/vinom-chase/game"
)

// MaxTemplateLength caps the characters of a level template.
const MaxTemplateLength = 16 << 10

// maxCreateBody caps the body of a level creation request.
const maxCreateBody = 2 * MaxTemplateLength

// CreateLevelRequest describes a level to create. Template wins over the maze size.
type CreateLevelRequest struct {
	Infinite bool   `json:"infinite"`
	Width    int    `json:"width" binding:"omitempty,min=2,max=20"`
	Height   int    `json:"height" binding:"omitempty,min=2,max=20"`
	Hunters  int    `json:"hunters" binding:"omitempty,min=0"`
	Template string `json:"template" binding:"max=16384"`
}

// DirectionRequest carries a direction initial or name.
type DirectionRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// UnitResponse is one actor of a level.
type UnitResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	OnBoard   bool   `json:"on_board"`
	Facing    string `json:"facing"`
	Score     int    `json:"score,omitempty"`
	Lives     int    `json:"lives,omitempty"`
	Alive     bool   `json:"alive"`
	Feared    bool   `json:"feared,omitempty"`
	Warning   bool   `json:"warning,omitempty"`
	Exploding bool   `json:"exploding,omitempty"`
	Shooting  bool   `json:"shooting,omitempty"`
}

// LevelResponse is the JSON form of a snapshot.
type LevelResponse struct {
	ID          string         `json:"id"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Running     bool           `json:"running"`
	Infinite    bool           `json:"infinite"`
	Won         bool           `json:"won"`
	Mode        string         `json:"mode"`
	PelletsLeft int            `json:"pellets_left"`
	Rows        []string       `json:"rows"`
	Units       []UnitResponse `json:"units"`
}

func toLevelResponse(s game.Snapshot) *LevelResponse {
	resp := &LevelResponse{
		ID:          s.ID.String(),
		Width:       s.Width,
		Height:      s.Height,
		Running:     s.Running,
		Infinite:    s.Infinite,
		Won:         s.Won,
		Mode:        s.Mode.String(),
		PelletsLeft: s.PelletsLeft,
		Rows:        s.Rows,
		Units:       make([]UnitResponse, 0, len(s.Units)),
	}
	for _, u := range s.Units {
		resp.Units = append(resp.Units, UnitResponse{
			ID:        u.ID.String(),
			Kind:      u.Kind.String(),
			X:         u.X,
			Y:         u.Y,
			OnBoard:   u.OnBoard,
			Facing:    u.Facing.String(),
			Score:     u.Score,
			Lives:     u.Lives,
			Alive:     u.Alive,
			Feared:    u.Feared,
			Warning:   u.Warning,
			Exploding: u.Exploding,
			Shooting:  u.Shooting,
		})
	}
	return resp
}
