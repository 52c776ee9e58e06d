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

type courseRepository struct {
	collection *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) CourseRepository {
	collection := db.Collection(CollectionCourses)

	ensureIndexes(collection,
		index("professor_idx", bson.D{{Key: "professor", Value: 1}}),
		index("name_idx", bson.D{{Key: "name", Value: 1}}),
	)

	return &courseRepository{collection: collection}
}

// Create сохраняет курс. Списки инициализируются пустыми массивами,
// иначе последующий $push в поле со значением null завершится ошибкой.
func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	course.Users = emptyIfNil(course.Users)
	course.Resources = emptyIfNil(course.Resources)
	course.Comments = emptyIfNil(course.Comments)
	if course.Ratings == nil {
		course.Ratings = []entity.Rating{}
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpInsert, CollectionCourses)
	result, err := r.collection.InsertOne(ctx, course)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid
	}

	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Course, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionCourses)
	var course entity.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.ObserveDuration()
		return nil, ErrNotFound
	}
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return &course, nil
}

func (r *courseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionCourses)
	var courses []entity.Course
	err := findByIDs(ctx, r.collection, ids, &courses)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}

	return courses, nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]entity.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionCourses)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		timer.Observe(err)
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []entity.Course
	err = cursor.All(ctx, &courses)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}

	return courses, nil
}

// Update перезаписывает редактируемые поля курса.
// Оценки и комментарии меняются только своими методами.
func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	course.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":      course.Name,
			"level":     course.Level,
			"about":     course.About,
			"users":     emptyIfNil(course.Users),
			"professor": course.Professor,
			"updatedAt": course.UpdatedAt,
		},
	}

	return r.updateOne(ctx, course.ID, update)
}

func (r *courseRepository) UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings []entity.Rating) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"ratings": ratings, "updatedAt": time.Now().UTC()},
	})
}

func (r *courseRepository) UpdateAvgRating(ctx context.Context, id primitive.ObjectID, avg float64) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"avgRating": avg}})
}

func (r *courseRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, CollectionCourses)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpDelete, CollectionCourses)
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
