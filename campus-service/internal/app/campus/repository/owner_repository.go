package repository

import (
	"context"
	"fmt"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ownerRepository struct {
	collections map[entity.OwnerKind]*mongo.Collection
}

// NewOwnerRepository объединяет коллекции courses, professors и communities:
// у всех трех одинаковый список comments
func NewOwnerRepository(db *mongo.Database) OwnerRepository {
	return &ownerRepository{
		collections: map[entity.OwnerKind]*mongo.Collection{
			entity.OwnerCourse:    db.Collection(CollectionCourses),
			entity.OwnerProfessor: db.Collection(CollectionProfessors),
			entity.OwnerCommunity: db.Collection(CollectionCommunities),
		},
	}
}

func (r *ownerRepository) collection(kind entity.OwnerKind) (*mongo.Collection, error) {
	collection, ok := r.collections[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported owner kind %q", kind)
	}
	return collection, nil
}

func (r *ownerRepository) Exists(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) (bool, error) {
	collection, err := r.collection(kind)
	if err != nil {
		return false, err
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, collection.Name())
	count, err := collection.CountDocuments(ctx, bson.M{"_id": ownerID}, options.Count().SetLimit(1))
	timer.Observe(err)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", kind, err)
	}

	return count > 0, nil
}

// PushComment дописывает id комментария в список comments владельца.
// Возвращает ErrNotFound, если владелец был удален между проверкой и записью.
func (r *ownerRepository) PushComment(ctx context.Context, kind entity.OwnerKind, ownerID, commentID primitive.ObjectID) error {
	collection, err := r.collection(kind)
	if err != nil {
		return err
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, collection.Name())
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$push": bson.M{"comments": commentID}},
	)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to push comment to %s: %w", kind, err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *ownerRepository) PullComments(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID, commentIDs ...primitive.ObjectID) error {
	if len(commentIDs) == 0 {
		return nil
	}

	collection, err := r.collection(kind)
	if err != nil {
		return err
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, collection.Name())
	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$pull": bson.M{"comments": bson.M{"$in": commentIDs}}},
	)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to pull comments from %s: %w", kind, err)
	}

	return nil
}
