package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// === Comments ===

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// UserRef - автор с подставленным username
type UserRef struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// CommentView - комментарий с разрешенными авторами (и ответами для верхнего уровня)
type CommentView struct {
	ID            primitive.ObjectID  `json:"id"`
	User          UserRef             `json:"user"`
	Content       string              `json:"content"`
	CommentType   OwnerKind           `json:"commentType"`
	Course        *primitive.ObjectID `json:"course,omitempty"`
	Professor     *primitive.ObjectID `json:"professor,omitempty"`
	Community     *primitive.ObjectID `json:"community,omitempty"`
	ParentComment *primitive.ObjectID `json:"parentComment"`
	Replies       []CommentView       `json:"replies"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// === Ratings ===

type AddRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type RatingResponse struct {
	AverageRating float64 `json:"averageRating"`
}

// RatingView - оценка с разрешенным автором
type RatingView struct {
	User   *User `json:"user"`
	Rating int   `json:"rating"`
}

// === Courses ===

type CreateCourseRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Level     string   `json:"level" validate:"max=50"`
	About     string   `json:"about" validate:"max=5000"`
	Users     []string `json:"users" validate:"dive,len=24,hexadecimal"`
	Professor string   `json:"professor" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateCourseRequest - частичное обновление.
// nil означает "поле не передано", пустое значение применяется как есть.
type UpdateCourseRequest struct {
	Name      *string   `json:"name"`
	Level     *string   `json:"level"`
	About     *string   `json:"about"`
	Users     *[]string `json:"users"`
	Professor *string   `json:"professor"`
}

// CourseView - курс с разрешенными связями
type CourseView struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Level     string             `json:"level"`
	About     string             `json:"about"`
	Users     []User             `json:"users"`
	Professor *Professor         `json:"professor"`
	Major     bson.M             `json:"major,omitempty"`
	Resources []bson.M           `json:"resources,omitempty"`
	Ratings   []RatingView       `json:"ratings"`
	AvgRating float64            `json:"avgRating"`
	Comments  []CommentView      `json:"comments"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type CourseResponse struct {
	Message string  `json:"message"`
	Course  *Course `json:"course"`
}

// === Reviews ===

type ReviewCommentInput struct {
	User    string `json:"user" validate:"required,len=24,hexadecimal"`
	Content string `json:"content" validate:"required,max=2000"`
}

type CreateReviewRequest struct {
	User      string               `json:"user" validate:"required,len=24,hexadecimal"`
	Professor string               `json:"professor" validate:"required,len=24,hexadecimal"`
	Course    string               `json:"course" validate:"required,len=24,hexadecimal"`
	Stars     int                  `json:"stars" validate:"required,min=1,max=5"`
	Comments  []ReviewCommentInput `json:"comments" validate:"dive"`
}

// UpdateReviewRequest - частичное обновление, nil означает "не передано"
type UpdateReviewRequest struct {
	Stars    *int                  `json:"stars" validate:"omitempty,min=1,max=5"`
	Comments *[]ReviewCommentInput `json:"comments" validate:"omitempty,dive"`
}

type ReviewCommentView struct {
	User      *User     `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewView struct {
	ID        primitive.ObjectID  `json:"id"`
	User      *User               `json:"user"`
	Professor *Professor          `json:"professor"`
	Course    *Course             `json:"course"`
	Stars     int                 `json:"stars"`
	Comments  []ReviewCommentView `json:"comments"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type ReviewResponse struct {
	Message string  `json:"message"`
	Review  *Review `json:"review"`
}

// === Общие ===

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}
