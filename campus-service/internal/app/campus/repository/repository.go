package repository

import (
	"context"
	"errors"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrNotFound = errors.New("document not found")
)

const metricsService = "campus-service"

// Имена коллекций MongoDB
const (
	CollectionUsers       = "users"
	CollectionCourses     = "courses"
	CollectionProfessors  = "professors"
	CollectionCommunities = "communities"
	CollectionComments    = "comments"
	CollectionReviews     = "reviews"
	CollectionMajors      = "majors"
	CollectionResources   = "resources"
)

// UserRepository - пользователи и их список курсов
type UserRepository interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error)
	AddCourse(ctx context.Context, userIDs []primitive.ObjectID, courseID primitive.ObjectID) error
	RemoveCourse(ctx context.Context, userIDs []primitive.ObjectID, courseID primitive.ObjectID) error
}

type ProfessorRepository interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Professor, error)
	AddCourse(ctx context.Context, professorID, courseID primitive.ObjectID) error
	RemoveCourse(ctx context.Context, professorID, courseID primitive.ObjectID) error
}

// OwnerRepository работает со списком comments у курса, преподавателя или сообщества
type OwnerRepository interface {
	Exists(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) (bool, error)
	PushComment(ctx context.Context, kind entity.OwnerKind, ownerID, commentID primitive.ObjectID) error
	PullComments(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID, commentIDs ...primitive.ObjectID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Comment, error)
	ListTopLevel(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) ([]entity.Comment, error)
	PushReply(ctx context.Context, parentID, replyID primitive.ObjectID) error
	PullReply(ctx context.Context, parentID, replyID primitive.ObjectID) error
	FindReplyIDs(ctx context.Context, parentID primitive.ObjectID) ([]primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteReplies(ctx context.Context, parentID primitive.ObjectID, replyIDs []primitive.ObjectID) (int64, error)
	DeleteByOwner(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Course, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Course, error)
	GetAll(ctx context.Context) ([]entity.Course, error)
	Update(ctx context.Context, course *entity.Course) error
	UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings []entity.Rating) error
	UpdateAvgRating(ctx context.Context, id primitive.ObjectID, avg float64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetAll(ctx context.Context) ([]entity.Review, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// DocumentRepository читает документы коллекций, схемой которых сервис не владеет (majors, resources)
type DocumentRepository interface {
	GetByIDs(ctx context.Context, collection string, ids []primitive.ObjectID) ([]bson.M, error)
}

// TokenRepository - черный список отозванных JWT в Redis
type TokenRepository interface {
	AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
