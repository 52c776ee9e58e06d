package handler

import (
	"errors"
	"net/http"

	"campusreview/campus-service/internal/app/campus/service"
	"campusreview/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError переводит ошибку сервиса в HTTP статус.
// Для неизвестных ошибок клиент получает fallback, а детали уходят в лог.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("route", c.FullPath()).
			Msg(fallback)
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidOwnerKind),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrOwnerNotFound),
		errors.Is(err, service.ErrParentNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON разбирает и валидирует тело запроса, отвечая 400 при ошибке
func bindJSON(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}

	if err := v.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return false
	}

	return true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
