package repo

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-chase/identity"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository errors.
var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUsernameConflict = errors.New("username conflict")
)

var _ i.PlayerRepo = &PlayerRepo{}

// PlayerRepo handles the persistence of player models.
type PlayerRepo struct {
	collection *mongo.Collection
}

// NewPlayerRepo creates a new PlayerRepo with the given MongoDB client, database name, and collection name.
// It makes sure usernames are unique.
func NewPlayerRepo(ctx context.Context, client *mongo.Client, dbName, collectionName string) (*PlayerRepo, error) {
	collection := client.Database(dbName).Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &PlayerRepo{
		collection: collection,
	}, nil
}

// Save inserts or updates a player in the repository.
// If the player already exists, it updates the existing record.
// If the player does not exist, it adds a new record.
func (r *PlayerRepo) Save(player *identity.Player) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	filter := bson.M{"_id": player.ID}
	update := bson.M{
		"$set": bson.M{
			"username":     player.Username,
			"passwordHash": player.PasswordHash,
			"bestScore":    player.BestScore,
			"levelsPlayed": player.LevelsPlayed,
			"levelsWon":    player.LevelsWon,
			"updatedAt":    time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameConflict
		}
		return errors.New("unexpected error: " + err.Error())
	}

	return nil
}

// ByID retrieves a player by their ID.
// Returns an error if the player is not found or if an unexpected error occurs.
func (r *PlayerRepo) ByID(id uuid.UUID) (*identity.Player, error) {
	return r.findOne(bson.M{"_id": id})
}

// ByUsername retrieves a player by their username.
// Returns an error if the player is not found or if an unexpected error occurs.
func (r *PlayerRepo) ByUsername(username string) (*identity.Player, error) {
	return r.findOne(bson.M{"username": username})
}

func (r *PlayerRepo) findOne(filter bson.M) (*identity.Player, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var player identity.Player
	if err := r.collection.FindOne(ctx, filter).Decode(&player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &player, nil
}
