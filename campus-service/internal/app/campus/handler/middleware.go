package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"campusreview/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Ключи gin.Context, которые заполняет AuthMiddleware
const (
	ctxUserID         = "user_id"
	ctxToken          = "token"
	ctxTokenExpiresAt = "token_expires_at"
)

// JWTClaims - claims токена внешнего провайдера.
// Идентификатор пользователя берется из user_id, а если его нет - из sub.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// RevocationChecker проверяет черный список токенов
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware проверяет JWT токен в запросах для Gin
type AuthMiddleware struct {
	jwtSecret []byte
	revoked   RevocationChecker
}

func NewAuthMiddleware(jwtSecret string, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: []byte(jwtSecret),
		revoked:   revoked,
	}
}

// Authenticate проверяет подпись и срок токена, затем черный список,
// и кладет id пользователя в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := m.parse(tokenString)
		if err != nil || claims.subject() == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(c.Request.Context(), tokenString)
			if err != nil {
				logger.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to check token revocation")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				return
			}
		}

		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}

		c.Set(ctxUserID, claims.subject())
		c.Set(ctxToken, tokenString)
		c.Set(ctxTokenExpiresAt, expiresAt)

		c.Next()
	}
}

func (m *AuthMiddleware) parse(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// currentUserID возвращает id аутентифицированного пользователя
func currentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ctxUserID)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
