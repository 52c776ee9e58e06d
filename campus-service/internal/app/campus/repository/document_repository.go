package repository

import (
	"context"
	"fmt"

	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type documentRepository struct {
	db *mongo.Database
}

func NewDocumentRepository(db *mongo.Database) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) GetByIDs(ctx context.Context, collection string, ids []primitive.ObjectID) ([]bson.M, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, collection)
	var docs []bson.M
	err := findByIDs(ctx, r.db.Collection(collection), ids, &docs)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", collection, err)
	}

	return docs, nil
}
