package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/repository"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseService управляет курсами и обратными ссылками на них
// у пользователей и преподавателей
type CourseService struct {
	courseRepo    repository.CourseRepository
	userRepo      repository.UserRepository
	professorRepo repository.ProfessorRepository
	commentRepo   repository.CommentRepository
	documentRepo  repository.DocumentRepository
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	professorRepo repository.ProfessorRepository,
	commentRepo repository.CommentRepository,
	documentRepo repository.DocumentRepository,
) *CourseService {
	return &CourseService{
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		professorRepo: professorRepo,
		commentRepo:   commentRepo,
		documentRepo:  documentRepo,
	}
}

// CreateCourse сохраняет курс и добавляет его в списки courses
// у перечисленных пользователей и преподавателя.
// Связывание выполняется после вставки отдельными записями.
func (s *CourseService) CreateCourse(ctx context.Context, req entity.CreateCourseRequest) (*entity.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	userIDs, err := parseIDs(req.Users, ErrInvalidInput)
	if err != nil {
		return nil, err
	}

	course := &entity.Course{
		Name:  name,
		Level: req.Level,
		About: req.About,
		Users: uniqueIDs(userIDs),
	}

	if req.Professor != "" {
		professorID, err := parseID(req.Professor, ErrInvalidInput)
		if err != nil {
			return nil, err
		}
		course.Professor = &professorID
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if len(course.Users) > 0 {
		if err := s.userRepo.AddCourse(ctx, course.Users, course.ID); err != nil {
			return nil, fmt.Errorf("course %s created but not linked to users: %w", course.ID.Hex(), err)
		}
	}

	if course.Professor != nil {
		if err := s.professorRepo.AddCourse(ctx, *course.Professor, course.ID); err != nil {
			return nil, fmt.Errorf("course %s created but not linked to professor: %w", course.ID.Hex(), err)
		}
	}

	metrics.CoursesManaged.WithLabelValues("create").Inc()

	return course, nil
}

// ListCourses возвращает все курсы с разрешенными пользователями,
// преподавателем, комментариями и авторами оценок
func (s *CourseService) ListCourses(ctx context.Context) ([]entity.CourseView, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}

	return s.buildViews(ctx, courses)
}

// GetCourse дополнительно к ListCourses подставляет направление и ресурсы курса
func (s *CourseService) GetCourse(ctx context.Context, id string) (*entity.CourseView, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, []entity.Course{*course})
	if err != nil {
		return nil, err
	}
	view := views[0]

	if course.Major != nil {
		majors, err := s.documentRepo.GetByIDs(ctx, repository.CollectionMajors, []primitive.ObjectID{*course.Major})
		if err != nil {
			return nil, fmt.Errorf("failed to load major: %w", err)
		}
		if len(majors) > 0 {
			view.Major = majors[0]
		}
	}

	if len(course.Resources) > 0 {
		resources, err := s.documentRepo.GetByIDs(ctx, repository.CollectionResources, course.Resources)
		if err != nil {
			return nil, fmt.Errorf("failed to load resources: %w", err)
		}
		view.Resources = orderDocuments(resources, course.Resources)
	}

	return &view, nil
}

// UpdateCourse применяет только переданные поля.
// При смене users или professor обратные ссылки переносятся на новые документы.
func (s *CourseService) UpdateCourse(ctx context.Context, id string, req entity.UpdateCourseRequest) (*entity.Course, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	oldUsers := course.Users
	oldProfessor := course.Professor

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		course.Name = name
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.About != nil {
		course.About = *req.About
	}
	if req.Users != nil {
		userIDs, err := parseIDs(*req.Users, ErrInvalidInput)
		if err != nil {
			return nil, err
		}
		course.Users = uniqueIDs(userIDs)
	}
	if req.Professor != nil {
		course.Professor = nil
		if *req.Professor != "" {
			professorID, err := parseID(*req.Professor, ErrInvalidInput)
			if err != nil {
				return nil, err
			}
			course.Professor = &professorID
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if req.Users != nil {
		if err := s.relinkUsers(ctx, course.ID, oldUsers, course.Users); err != nil {
			return nil, err
		}
	}
	if req.Professor != nil {
		if err := s.relinkProfessor(ctx, course.ID, oldProfessor, course.Professor); err != nil {
			return nil, err
		}
	}

	metrics.CoursesManaged.WithLabelValues("update").Inc()

	return course, nil
}

// DeleteCourse удаляет курс, убирает его из списков пользователей и преподавателя
// и удаляет привязанные к нему комментарии
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, course.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if len(course.Users) > 0 {
		if err := s.userRepo.RemoveCourse(ctx, course.Users, course.ID); err != nil {
			return fmt.Errorf("course %s deleted but not unlinked from users: %w", id, err)
		}
	}

	if course.Professor != nil {
		if err := s.professorRepo.RemoveCourse(ctx, *course.Professor, course.ID); err != nil {
			return fmt.Errorf("course %s deleted but not unlinked from professor: %w", id, err)
		}
	}

	deleted, err := s.commentRepo.DeleteByOwner(ctx, entity.OwnerCourse, course.ID)
	if err != nil {
		return fmt.Errorf("course %s deleted but its comments remain: %w", id, err)
	}
	if deleted > 0 {
		metrics.CommentsDeleted.Add(float64(deleted))
	}

	metrics.CoursesManaged.WithLabelValues("delete").Inc()

	return nil
}

func (s *CourseService) getCourse(ctx context.Context, id string) (*entity.Course, error) {
	oid, err := parseID(id, ErrCourseNotFound)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

func (s *CourseService) relinkUsers(ctx context.Context, courseID primitive.ObjectID, before, after []primitive.ObjectID) error {
	if added := diffIDs(after, before); len(added) > 0 {
		if err := s.userRepo.AddCourse(ctx, added, courseID); err != nil {
			return fmt.Errorf("failed to link course to users: %w", err)
		}
	}
	if removed := diffIDs(before, after); len(removed) > 0 {
		if err := s.userRepo.RemoveCourse(ctx, removed, courseID); err != nil {
			return fmt.Errorf("failed to unlink course from users: %w", err)
		}
	}
	return nil
}

func (s *CourseService) relinkProfessor(ctx context.Context, courseID primitive.ObjectID, before, after *primitive.ObjectID) error {
	if before != nil && after != nil && *before == *after {
		return nil
	}

	if before != nil {
		if err := s.professorRepo.RemoveCourse(ctx, *before, courseID); err != nil {
			return fmt.Errorf("failed to unlink course from professor: %w", err)
		}
	}
	if after != nil {
		if err := s.professorRepo.AddCourse(ctx, *after, courseID); err != nil {
			return fmt.Errorf("failed to link course to professor: %w", err)
		}
	}
	return nil
}

// buildViews загружает связанные документы для всех курсов разом:
// по одному запросу на пользователей, преподавателей и комментарии
func (s *CourseService) buildViews(ctx context.Context, courses []entity.Course) ([]entity.CourseView, error) {
	var userIDs, professorIDs, commentIDs []primitive.ObjectID
	for _, c := range courses {
		userIDs = append(userIDs, c.Users...)
		for _, r := range c.Ratings {
			userIDs = append(userIDs, r.User)
		}
		if c.Professor != nil {
			professorIDs = append(professorIDs, *c.Professor)
		}
		commentIDs = append(commentIDs, c.Comments...)
	}

	comments, err := loadComments(ctx, s.commentRepo, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	for _, c := range comments {
		userIDs = append(userIDs, c.User)
	}

	users, err := loadUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	professors, err := loadProfessors(ctx, s.professorRepo, professorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load professors: %w", err)
	}

	views := make([]entity.CourseView, 0, len(courses))
	for _, c := range courses {
		view := entity.CourseView{
			ID:        c.ID,
			Name:      c.Name,
			Level:     c.Level,
			About:     c.About,
			Users:     []entity.User{},
			Ratings:   make([]entity.RatingView, 0, len(c.Ratings)),
			AvgRating: c.AvgRating,
			Comments:  []entity.CommentView{},
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}

		for _, id := range c.Users {
			if u, ok := users[id]; ok {
				view.Users = append(view.Users, u)
			}
		}

		if c.Professor != nil {
			if p, ok := professors[*c.Professor]; ok {
				view.Professor = &p
			}
		}

		for _, r := range c.Ratings {
			view.Ratings = append(view.Ratings, entity.RatingView{
				User:   userPtr(r.User, users),
				Rating: r.Rating,
			})
		}

		for _, id := range c.Comments {
			if comment, ok := comments[id]; ok {
				view.Comments = append(view.Comments, commentView(comment, users, nil))
			}
		}

		views = append(views, view)
	}

	return views, nil
}

// orderDocuments возвращает документы в порядке ids, пропуская отсутствующие
func orderDocuments(docs []bson.M, ids []primitive.ObjectID) []bson.M {
	byID := make(map[primitive.ObjectID]bson.M, len(docs))
	for _, d := range docs {
		if id, ok := d["_id"].(primitive.ObjectID); ok {
			byID[id] = d
		}
	}

	out := make([]bson.M, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}
