package repository

import (
	"context"
	"time"

	"campusreview/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes создает индексы коллекции.
// Ошибка только логируется - индекс может уже существовать с другими опциями.
func ensureIndexes(collection *mongo.Collection, models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
		logger.Warn().
			Err(err).
			Str("collection", collection.Name()).
			Msg("Failed to create indexes")
	}
}

func index(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}
}

// findByIDs загружает документы по списку _id в произвольном порядке
func findByIDs(ctx context.Context, collection *mongo.Collection, ids []primitive.ObjectID, out interface{}) error {
	cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func emptyIfNil(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
