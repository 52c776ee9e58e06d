package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/infrastructure"
	"campusreview/campus-service/internal/app/campus/repository"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewService - отзывы о паре преподаватель/курс.
// Существование пользователя, преподавателя и курса при создании не проверяется.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	userRepo      repository.UserRepository
	professorRepo repository.ProfessorRepository
	courseRepo    repository.CourseRepository
	events        eventPublisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	professorRepo repository.ProfessorRepository,
	courseRepo repository.CourseRepository,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		userRepo:      userRepo,
		professorRepo: professorRepo,
		courseRepo:    courseRepo,
		events:        eventPublisher{publisher: publisher},
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, req entity.CreateReviewRequest) (*entity.Review, error) {
	if req.Stars < MinRating || req.Stars > MaxRating {
		return nil, fmt.Errorf("%w: stars must be between %d and %d", ErrInvalidInput, MinRating, MaxRating)
	}

	ids, err := parseIDs([]string{req.User, req.Professor, req.Course}, ErrInvalidInput)
	if err != nil {
		return nil, err
	}

	comments, err := reviewComments(req.Comments, nil)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		User:      ids[0],
		Professor: ids[1],
		Course:    ids[2],
		Stars:     req.Stars,
		Comments:  comments,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsStars.Observe(float64(review.Stars))

	s.events.publish(ctx, entity.Event{
		EventType: entity.EventReviewCreated,
		EntityID:  review.ID.Hex(),
		UserID:    req.User,
		Rating:    float64(review.Stars),
	})

	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context) ([]entity.ReviewView, error) {
	reviews, err := s.reviewRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return s.buildViews(ctx, reviews)
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (*entity.ReviewView, error) {
	review, err := s.getReview(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, []entity.Review{*review})
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

// UpdateReview меняет только переданные поля.
// Переданный список комментариев заменяет прежний целиком.
func (s *ReviewService) UpdateReview(ctx context.Context, id string, req entity.UpdateReviewRequest) (*entity.Review, error) {
	review, err := s.getReview(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Stars != nil {
		if *req.Stars < MinRating || *req.Stars > MaxRating {
			return nil, fmt.Errorf("%w: stars must be between %d and %d", ErrInvalidInput, MinRating, MaxRating)
		}
		review.Stars = *req.Stars
	}

	if req.Comments != nil {
		comments, err := reviewComments(*req.Comments, review.Comments)
		if err != nil {
			return nil, err
		}
		review.Comments = comments
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// DeleteReview удаляет отзыв без проверки автора
func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	oid, err := parseID(id, ErrReviewNotFound)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}

func (s *ReviewService) getReview(ctx context.Context, id string) (*entity.Review, error) {
	oid, err := parseID(id, ErrReviewNotFound)
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (s *ReviewService) buildViews(ctx context.Context, reviews []entity.Review) ([]entity.ReviewView, error) {
	var userIDs, professorIDs, courseIDs []primitive.ObjectID
	for _, r := range reviews {
		userIDs = append(userIDs, r.User)
		professorIDs = append(professorIDs, r.Professor)
		courseIDs = append(courseIDs, r.Course)
		for _, c := range r.Comments {
			userIDs = append(userIDs, c.User)
		}
	}

	users, err := loadUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	professors, err := loadProfessors(ctx, s.professorRepo, professorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load professors: %w", err)
	}

	courses := map[primitive.ObjectID]entity.Course{}
	if len(courseIDs) > 0 {
		found, err := s.courseRepo.GetByIDs(ctx, uniqueIDs(courseIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load courses: %w", err)
		}
		for _, c := range found {
			courses[c.ID] = c
		}
	}

	views := make([]entity.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := entity.ReviewView{
			ID:        r.ID,
			User:      userPtr(r.User, users),
			Stars:     r.Stars,
			Comments:  make([]entity.ReviewCommentView, 0, len(r.Comments)),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if p, ok := professors[r.Professor]; ok {
			view.Professor = &p
		}
		if c, ok := courses[r.Course]; ok {
			view.Course = &c
		}
		for _, c := range r.Comments {
			view.Comments = append(view.Comments, entity.ReviewCommentView{
				User:      userPtr(c.User, users),
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, view)
	}

	return views, nil
}

// reviewComments собирает новый список комментариев отзыва.
// Комментарий, совпадающий с прежним по автору и тексту, сохраняет свой CreatedAt;
// каждый прежний комментарий сопоставляется не более одного раза.
func reviewComments(in []entity.ReviewCommentInput, existing []entity.ReviewComment) ([]entity.ReviewComment, error) {
	now := time.Now().UTC()
	used := make([]bool, len(existing))
	out := make([]entity.ReviewComment, 0, len(in))
	for _, c := range in {
		userID, err := parseID(c.User, ErrInvalidInput)
		if err != nil {
			return nil, err
		}

		createdAt := now
		for i, e := range existing {
			if !used[i] && e.User == userID && e.Content == c.Content {
				used[i] = true
				createdAt = e.CreatedAt
				break
			}
		}

		out = append(out, entity.ReviewComment{
			User:      userID,
			Content:   c.Content,
			CreatedAt: createdAt,
		})
	}
	return out, nil
}
