package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== Моки сервисов ====================

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListComments(ctx context.Context, ownerType, ownerID string) ([]entity.CommentView, error) {
	args := m.Called(ctx, ownerType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CommentView), args.Error(1)
}

func (m *MockCommentService) CreateComment(ctx context.Context, ownerType, ownerID, authorID, content string) (*entity.Comment, error) {
	args := m.Called(ctx, ownerType, ownerID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentService) ReplyToComment(ctx context.Context, parentID, authorID, content string) (*entity.CommentView, error) {
	args := m.Called(ctx, parentID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommentView), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	args := m.Called(ctx, commentID, requesterID)
	return args.Error(0)
}

type MockCourseService struct {
	mock.Mock
}

func (m *MockCourseService) CreateCourse(ctx context.Context, req entity.CreateCourseRequest) (*entity.Course, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseService) ListCourses(ctx context.Context) ([]entity.CourseView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CourseView), args.Error(1)
}

func (m *MockCourseService) GetCourse(ctx context.Context, id string) (*entity.CourseView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CourseView), args.Error(1)
}

func (m *MockCourseService) UpdateCourse(ctx context.Context, id string, req entity.UpdateCourseRequest) (*entity.Course, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseService) DeleteCourse(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) AddRating(ctx context.Context, courseID, userID string, rating int) (float64, error) {
	args := m.Called(ctx, courseID, userID, rating)
	return args.Get(0).(float64), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, req entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) ListReviews(ctx context.Context) ([]entity.ReviewView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReviewView), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, id string) (*entity.ReviewView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewView), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, id string, req entity.UpdateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// ==================== Хелперы ====================

type testServer struct {
	router   *gin.Engine
	comments *MockCommentService
	courses  *MockCourseService
	ratings  *MockRatingService
	reviews  *MockReviewService
	auth     *MockAuthService
	checks   map[string]HealthCheck
}

func newTestServer() *testServer {
	s := &testServer{
		comments: new(MockCommentService),
		courses:  new(MockCourseService),
		ratings:  new(MockRatingService),
		reviews:  new(MockReviewService),
		auth:     new(MockAuthService),
		checks: map[string]HealthCheck{
			"mongodb": func(context.Context) error { return nil },
		},
	}

	s.router = SetupRoutes(Handlers{
		Comments: NewCommentHandler(s.comments),
		Courses:  NewCourseHandler(s.courses, s.ratings),
		Reviews:  NewReviewHandler(s.reviews),
		Auth:     NewAuthHandler(s.auth),
		Health:   NewHealthHandler(serviceName, s.checks),
	}, NewAuthMiddleware(testSecret, s.auth), nil)

	return s
}

// do выполняет запрос; token пустой - без заголовка Authorization
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// allowToken помечает токен как не отозванный
func (s *testServer) allowToken(token string) {
	s.auth.On("IsRevoked", mock.Anything, token).Return(false, nil)
}

func signToken(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, userID string) string {
	return signToken(t, JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}, testSecret)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

var errStore = errors.New("connection reset")
