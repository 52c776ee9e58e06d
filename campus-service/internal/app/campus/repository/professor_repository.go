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

type professorRepository struct {
	collection *mongo.Collection
}

func NewProfessorRepository(db *mongo.Database) ProfessorRepository {
	return &professorRepository{collection: db.Collection(CollectionProfessors)}
}

func (r *professorRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Professor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionProfessors)
	var professors []entity.Professor
	err := findByIDs(ctx, r.collection, ids, &professors)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find professors: %w", err)
	}

	return professors, nil
}

func (r *professorRepository) AddCourse(ctx context.Context, professorID, courseID primitive.ObjectID) error {
	return r.updateCourses(ctx, professorID, bson.M{"$addToSet": bson.M{"courses": courseID}})
}

func (r *professorRepository) RemoveCourse(ctx context.Context, professorID, courseID primitive.ObjectID) error {
	return r.updateCourses(ctx, professorID, bson.M{"$pull": bson.M{"courses": courseID}})
}

// updateCourses не считает отсутствие преподавателя ошибкой:
// ссылка на него в курсе не проверяется при создании
func (r *professorRepository) updateCourses(ctx context.Context, professorID primitive.ObjectID, update bson.M) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, CollectionProfessors)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": professorID}, update)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to update professor courses: %w", err)
	}

	return nil
}
