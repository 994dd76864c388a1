package identity

import "time"

// AuthRequest carries the credentials of a player.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on a successful sign in.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// ResultResponse is one finished level of a player.
type ResultResponse struct {
	LevelID    string    `json:"level_id"`
	Score      int       `json:"score"`
	Won        bool      `json:"won"`
	Infinite   bool      `json:"infinite"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	DurationMS int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// ProfileResponse describes the signed in player.
type ProfileResponse struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	BestScore    int              `json:"best_score"`
	LevelsPlayed int              `json:"levels_played"`
	LevelsWon    int              `json:"levels_won"`
	Results      []ResultResponse `json:"results"`
}
