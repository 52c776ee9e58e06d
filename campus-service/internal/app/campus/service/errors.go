package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrInvalidOwnerKind = errors.New("invalid owner type")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidID        = errors.New("invalid id")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrParentNotFound   = errors.New("parent comment not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrForbidden        = errors.New("not authorized to modify this resource")
)
