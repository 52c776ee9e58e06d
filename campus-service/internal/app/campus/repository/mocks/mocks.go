package mocks

import (
	"context"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) AddCourse(ctx context.Context, userIDs []primitive.ObjectID, courseID primitive.ObjectID) error {
	args := m.Called(ctx, userIDs, courseID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveCourse(ctx context.Context, userIDs []primitive.ObjectID, courseID primitive.ObjectID) error {
	args := m.Called(ctx, userIDs, courseID)
	return args.Error(0)
}

// MockProfessorRepository мок для ProfessorRepository
type MockProfessorRepository struct {
	mock.Mock
}

func (m *MockProfessorRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Professor, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Professor), args.Error(1)
}

func (m *MockProfessorRepository) AddCourse(ctx context.Context, professorID, courseID primitive.ObjectID) error {
	args := m.Called(ctx, professorID, courseID)
	return args.Error(0)
}

func (m *MockProfessorRepository) RemoveCourse(ctx context.Context, professorID, courseID primitive.ObjectID) error {
	args := m.Called(ctx, professorID, courseID)
	return args.Error(0)
}

// MockOwnerRepository мок для OwnerRepository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) Exists(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, kind, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOwnerRepository) PushComment(ctx context.Context, kind entity.OwnerKind, ownerID, commentID primitive.ObjectID) error {
	args := m.Called(ctx, kind, ownerID, commentID)
	return args.Error(0)
}

func (m *MockOwnerRepository) PullComments(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID, commentIDs ...primitive.ObjectID) error {
	args := m.Called(ctx, kind, ownerID, commentIDs)
	return args.Error(0)
}

// MockCommentRepository мок для CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Comment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListTopLevel(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) ([]entity.Comment, error) {
	args := m.Called(ctx, kind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) PushReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	args := m.Called(ctx, parentID, replyID)
	return args.Error(0)
}

func (m *MockCommentRepository) PullReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	args := m.Called(ctx, parentID, replyID)
	return args.Error(0)
}

func (m *MockCommentRepository) FindReplyIDs(ctx context.Context, parentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) DeleteReplies(ctx context.Context, parentID primitive.ObjectID, replyIDs []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, parentID, replyIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) DeleteByOwner(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, kind, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCourseRepository мок для CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *entity.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Course, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Course), args.Error(1)
}

func (m *MockCourseRepository) GetAll(ctx context.Context) ([]entity.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Course), args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *entity.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings []entity.Rating) error {
	args := m.Called(ctx, id, ratings)
	return args.Error(0)
}

func (m *MockCourseRepository) UpdateAvgRating(ctx context.Context, id primitive.ObjectID, avg float64) error {
	args := m.Called(ctx, id, avg)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetAll(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDocumentRepository мок для DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) GetByIDs(ctx context.Context, collection string, ids []primitive.ObjectID) ([]bson.M, error) {
	args := m.Called(ctx, collection, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.M), args.Error(1)
}

// MockTokenRepository мок для TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
