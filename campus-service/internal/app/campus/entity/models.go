package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerKind - тип сущности, к которой привязан комментарий
type OwnerKind string

const (
	OwnerCourse    OwnerKind = "course"
	OwnerProfessor OwnerKind = "professor"
	OwnerCommunity OwnerKind = "community"
)

// Valid сообщает, поддерживается ли тип владельца
func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerCourse, OwnerProfessor, OwnerCommunity:
		return true
	}
	return false
}

type User struct {
	ID       primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username string               `json:"username" bson:"username"`
	Email    string               `json:"email,omitempty" bson:"email,omitempty"`
	Courses  []primitive.ObjectID `json:"courses" bson:"courses"`
}

type Professor struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name       string               `json:"name" bson:"name"`
	Department string               `json:"department,omitempty" bson:"department,omitempty"`
	Comments   []primitive.ObjectID `json:"comments" bson:"comments"`
	Courses    []primitive.ObjectID `json:"courses" bson:"courses"`
}

type Community struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Comments    []primitive.ObjectID `json:"comments" bson:"comments"`
}

// Rating - оценка курса одним пользователем (не больше одной на пользователя)
type Rating struct {
	User   primitive.ObjectID `json:"user" bson:"user"`
	Rating int                `json:"rating" bson:"rating"`
}

type Course struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name"`
	Level     string               `json:"level" bson:"level"`
	About     string               `json:"about" bson:"about"`
	Users     []primitive.ObjectID `json:"users" bson:"users"`
	Professor *primitive.ObjectID  `json:"professor" bson:"professor"`
	Major     *primitive.ObjectID  `json:"major,omitempty" bson:"major,omitempty"`
	Resources []primitive.ObjectID `json:"resources" bson:"resources"`
	Ratings   []Rating             `json:"ratings" bson:"ratings"`
	AvgRating float64              `json:"avgRating" bson:"avgRating"` // Производное поле, среднее по Ratings
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Comment - комментарий или ответ на комментарий.
// Заполнено ровно одно из Course/Professor/Community, соответствующее CommentType.
// У ответа ParentComment указывает на комментарий верхнего уровня.
type Comment struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User          primitive.ObjectID   `json:"user" bson:"user"`
	Content       string               `json:"content" bson:"content"`
	CommentType   OwnerKind            `json:"commentType" bson:"commentType"`
	Course        *primitive.ObjectID  `json:"course,omitempty" bson:"course,omitempty"`
	Professor     *primitive.ObjectID  `json:"professor,omitempty" bson:"professor,omitempty"`
	Community     *primitive.ObjectID  `json:"community,omitempty" bson:"community,omitempty"`
	ParentComment *primitive.ObjectID  `json:"parentComment" bson:"parentComment"`
	Replies       []primitive.ObjectID `json:"replies" bson:"replies"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// OwnerID возвращает ссылку на владельца согласно CommentType
func (c *Comment) OwnerID() (primitive.ObjectID, bool) {
	var ref *primitive.ObjectID
	switch c.CommentType {
	case OwnerCourse:
		ref = c.Course
	case OwnerProfessor:
		ref = c.Professor
	case OwnerCommunity:
		ref = c.Community
	}
	if ref == nil {
		return primitive.NilObjectID, false
	}
	return *ref, true
}

// SetOwner заполняет CommentType и соответствующее поле владельца
func (c *Comment) SetOwner(kind OwnerKind, ownerID primitive.ObjectID) {
	c.CommentType = kind
	c.Course, c.Professor, c.Community = nil, nil, nil

	id := ownerID
	switch kind {
	case OwnerCourse:
		c.Course = &id
	case OwnerProfessor:
		c.Professor = &id
	case OwnerCommunity:
		c.Community = &id
	}
}

// IsReply - true для ответов на комментарий
func (c *Comment) IsReply() bool {
	return c.ParentComment != nil
}

type ReviewComment struct {
	User      primitive.ObjectID `json:"user" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Professor primitive.ObjectID `json:"professor" bson:"professor"`
	Course    primitive.ObjectID `json:"course" bson:"course"`
	Stars     int                `json:"stars" bson:"stars"`
	Comments  []ReviewComment    `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
