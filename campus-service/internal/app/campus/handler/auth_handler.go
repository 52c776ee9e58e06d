package handler

import (
	"context"
	"net/http"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"

	"github.com/gin-gonic/gin"
)

type AuthServiceInterface interface {
	Logout(ctx context.Context, token string, expiresAt time.Time) error
}

type AuthHandler struct {
	authService AuthServiceInterface
}

func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Logout отзывает текущий токен. Вызывается после AuthMiddleware.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(ctxToken)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var expiresAt time.Time
	if value, ok := c.Get(ctxTokenExpiresAt); ok {
		expiresAt, _ = value.(time.Time)
	}

	if err := h.authService.Logout(c.Request.Context(), token, expiresAt); err != nil {
		respondError(c, err, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Successfully logged out"})
}
