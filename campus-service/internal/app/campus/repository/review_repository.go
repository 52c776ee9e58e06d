package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает репозиторий отзывов с индексами по преподавателю и курсу
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(CollectionReviews)

	ensureIndexes(collection,
		index("professor_course_idx", bson.D{{Key: "professor", Value: 1}, {Key: "course", Value: 1}}),
		index("user_idx", bson.D{{Key: "user", Value: 1}}),
	)

	return &reviewRepository{collection: collection}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now
	if review.Comments == nil {
		review.Comments = []entity.ReviewComment{}
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpInsert, CollectionReviews)
	result, err := r.collection.InsertOne(ctx, review)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

func (r *reviewRepository) GetAll(ctx context.Context) ([]entity.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionReviews)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		timer.Observe(err)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	err = cursor.All(ctx, &reviews)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionReviews)
	var review entity.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.ObserveDuration()
		return nil, ErrNotFound
	}
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	review.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"stars":     review.Stars,
			"comments":  review.Comments,
			"updatedAt": review.UpdatedAt,
		},
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, CollectionReviews)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": review.ID}, update)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpDelete, CollectionReviews)
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
