package handler

import (
	"context"
	"net/http"

	"campusreview/campus-service/internal/app/campus/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CourseServiceInterface interface {
	CreateCourse(ctx context.Context, req entity.CreateCourseRequest) (*entity.Course, error)
	ListCourses(ctx context.Context) ([]entity.CourseView, error)
	GetCourse(ctx context.Context, id string) (*entity.CourseView, error)
	UpdateCourse(ctx context.Context, id string, req entity.UpdateCourseRequest) (*entity.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

type RatingServiceInterface interface {
	AddRating(ctx context.Context, courseID, userID string, rating int) (float64, error)
}

type CourseHandler struct {
	courseService CourseServiceInterface
	ratingService RatingServiceInterface
	validator     *validator.Validate
}

func NewCourseHandler(courseService CourseServiceInterface, ratingService RatingServiceInterface) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		ratingService: ratingService,
		validator:     validator.New(),
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req entity.CreateCourseRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create course")
		return
	}

	c.JSON(http.StatusCreated, entity.CourseResponse{
		Message: "Course created successfully",
		Course:  course,
	})
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get courses")
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get course")
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse обслуживает PUT и PATCH: в обоих случаях меняются только переданные поля
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req entity.UpdateCourseRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update course")
		return
	}

	c.JSON(http.StatusOK, entity.CourseResponse{
		Message: "Course updated successfully",
		Course:  course,
	})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseService.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete course")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Course deleted successfully"})
}

func (h *CourseHandler) AddRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.AddRatingRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	avg, err := h.ratingService.AddRating(c.Request.Context(), c.Param("id"), userID, req.Rating)
	if err != nil {
		respondError(c, err, "Failed to add rating")
		return
	}

	c.JSON(http.StatusOK, entity.RatingResponse{AverageRating: avg})
}
