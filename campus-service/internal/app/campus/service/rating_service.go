package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/infrastructure"
	"campusreview/campus-service/internal/app/campus/repository"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating = 1
	MaxRating = 5
)

type RatingService struct {
	courseRepo repository.CourseRepository
	events     eventPublisher
}

func NewRatingService(courseRepo repository.CourseRepository, publisher infrastructure.MessagePublisher) *RatingService {
	return &RatingService{
		courseRepo: courseRepo,
		events:     eventPublisher{publisher: publisher},
	}
}

// AddRating ставит или заменяет оценку пользователя и возвращает новое среднее.
//
// Список оценок и среднее сохраняются двумя отдельными записями, поэтому
// при одновременных оценках одного курса avgRating может не совпасть
// со списком ratings (выигрывает последняя запись). Следующая оценка
// пересчитывает среднее заново.
func (s *RatingService) AddRating(ctx context.Context, courseID, userID string, rating int) (float64, error) {
	if rating < MinRating || rating > MaxRating {
		return 0, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, MinRating, MaxRating)
	}

	courseOID, err := parseID(courseID, ErrCourseNotFound)
	if err != nil {
		return 0, err
	}

	userOID, err := parseID(userID, ErrInvalidID)
	if err != nil {
		return 0, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseOID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrCourseNotFound
		}
		return 0, fmt.Errorf("failed to get course: %w", err)
	}

	ratings := UpsertRating(course.Ratings, userOID, rating)
	avg := AverageRating(ratings)

	if err := s.courseRepo.UpdateRatings(ctx, courseOID, ratings); err != nil {
		return 0, s.mapUpdateErr(err)
	}

	if err := s.courseRepo.UpdateAvgRating(ctx, courseOID, avg); err != nil {
		return 0, s.mapUpdateErr(err)
	}

	metrics.CourseRatings.Observe(float64(rating))

	s.events.publish(ctx, entity.Event{
		EventType: entity.EventCourseRated,
		EntityID:  courseID,
		UserID:    userID,
		Rating:    avg,
	})

	return avg, nil
}

func (s *RatingService) mapUpdateErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseNotFound
	}
	return fmt.Errorf("failed to save rating: %w", err)
}

// UpsertRating заменяет оценку пользователя на месте или добавляет новую в конец.
// Исходный срез не изменяется.
func UpsertRating(ratings []entity.Rating, userID primitive.ObjectID, value int) []entity.Rating {
	out := make([]entity.Rating, 0, len(ratings)+1)
	found := false
	for _, r := range ratings {
		if r.User == userID {
			r.Rating = value
			found = true
		}
		out = append(out, r)
	}
	if !found {
		out = append(out, entity.Rating{User: userID, Rating: value})
	}
	return out
}

// AverageRating - среднее арифметическое, округленное до одного знака. Для пустого списка 0.
func AverageRating(ratings []entity.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}

	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}
