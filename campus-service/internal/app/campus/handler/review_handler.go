package handler

import (
	"context"
	"net/http"

	"campusreview/campus-service/internal/app/campus/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, req entity.CreateReviewRequest) (*entity.Review, error)
	ListReviews(ctx context.Context) ([]entity.ReviewView, error)
	GetReview(ctx context.Context, id string) (*entity.ReviewView, error)
	UpdateReview(ctx context.Context, id string, req entity.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// ReviewHandler не требует аутентификации: отзывы меняет и удаляет любой клиент
type ReviewHandler struct {
	reviewService ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, entity.ReviewResponse{
		Message: "Review created successfully",
		Review:  review,
	})
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get review")
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req entity.UpdateReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, entity.ReviewResponse{
		Message: "Review updated successfully",
		Review:  review,
	})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Review deleted successfully"})
}
