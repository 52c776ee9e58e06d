package repository

import (
	"context"
	"fmt"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository создает репозиторий пользователей.
// Сами пользователи создаются внешним сервисом авторизации, здесь - только чтение и связи с курсами.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection(CollectionUsers)}
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionUsers)
	var users []entity.User
	err := findByIDs(ctx, r.collection, ids, &users)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	return users, nil
}

// AddCourse добавляет курс в список courses всех перечисленных пользователей
func (r *userRepository) AddCourse(ctx context.Context, userIDs []primitive.ObjectID, courseID primitive.ObjectID) error {
	return r.updateCourses(ctx, userIDs, bson.M{"$addToSet": bson.M{"courses": courseID}})
}

func (r *userRepository) RemoveCourse(ctx context.Context, userIDs []primitive.ObjectID, courseID primitive.ObjectID) error {
	return r.updateCourses(ctx, userIDs, bson.M{"$pull": bson.M{"courses": courseID}})
}

func (r *userRepository) updateCourses(ctx context.Context, userIDs []primitive.ObjectID, update bson.M) error {
	if len(userIDs) == 0 {
		return nil
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, CollectionUsers)
	_, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": userIDs}}, update)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to update user courses: %w", err)
	}

	return nil
}
