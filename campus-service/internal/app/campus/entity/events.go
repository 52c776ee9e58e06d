package entity

import "time"

const (
	EventCommentCreated = "COMMENT_CREATED"
	EventCommentDeleted = "COMMENT_DELETED"
	EventCourseRated    = "COURSE_RATED"
	EventReviewCreated  = "REVIEW_CREATED"
)

// Event - событие платформы, публикуемое в Kafka.
// Ключ сообщения - EntityID, чтобы события одной сущности шли в одну партицию.
type Event struct {
	EventType string    `json:"event_type"`
	EntityID  string    `json:"entity_id"`
	OwnerType OwnerKind `json:"owner_type,omitempty"`
	OwnerID   string    `json:"owner_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	ParentID  string    `json:"parent_id,omitempty"`
	Rating    float64   `json:"rating,omitempty"`
	Removed   int       `json:"removed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
