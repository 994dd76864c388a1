package i

import (
	"github.com/beka-birhanu/vinom-chase/identity"
	"github.com/google/uuid"
)

// PlayerRepo defines the interface for player persistence operations.
type PlayerRepo interface {
	// Save inserts or updates a player in the repository.
	// If the player already exists, it updates the record. Otherwise, it creates a new one.
	Save(player *identity.Player) error

	// ByID retrieves a player by their unique ID.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByID(id uuid.UUID) (*identity.Player, error)

	// ByUsername retrieves a player by their username.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByUsername(username string) (*identity.Player, error)
}

// ResultRepo stores the results of finished levels.
type ResultRepo interface {
	Save(result *identity.LevelResult) error
	// ByPlayer returns the best results of a player, highest score first.
	ByPlayer(playerID uuid.UUID, limit int64) ([]*identity.LevelResult, error)
}
