package identity

import (
	"time"

	"github.com/google/uuid"
)

// LevelResult is the record of one finished level.
type LevelResult struct {
	ID         uuid.UUID     `bson:"_id"`
	LevelID    uuid.UUID     `bson:"levelId"`
	PlayerID   uuid.UUID     `bson:"playerId"`
	Score      int           `bson:"score"`
	Won        bool          `bson:"won"`
	Infinite   bool          `bson:"infinite"`
	Width      int           `bson:"width"`
	Height     int           `bson:"height"`
	Duration   time.Duration `bson:"duration"`
	FinishedAt time.Time     `bson:"finishedAt"`
}
