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

var _ i.ResultRepo = &ResultRepo{}

// ResultRepo keeps the history of finished levels.
type ResultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a ResultRepo on the given collection.
func NewResultRepo(client *mongo.Client, dbName, collectionName string) *ResultRepo {
	return &ResultRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// Save inserts a result.
func (r *ResultRepo) Save(result *identity.LevelResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, result); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByPlayer returns up to limit results of a player, highest score first.
func (r *ResultRepo) ByPlayer(playerID uuid.UUID, limit int64) ([]*identity.LevelResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "finishedAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"playerId": playerID}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	var results []*identity.LevelResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return results, nil
}
