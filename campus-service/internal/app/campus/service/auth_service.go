package service

import (
	"context"
	"fmt"
	"time"

	"campusreview/campus-service/internal/app/campus/repository"
)

// revocationTTL - срок хранения в черном списке токена без claim exp
const revocationTTL = 24 * time.Hour

// AuthService отзывает JWT. Токены выпускает внешний провайдер,
// сервис только ведет черный список до истечения срока их действия.
type AuthService struct {
	tokenRepo repository.TokenRepository
}

func NewAuthService(tokenRepo repository.TokenRepository) *AuthService {
	return &AuthService{tokenRepo: tokenRepo}
}

// Logout добавляет токен в черный список. Истекший токен пропускается.
// Токен без срока действия хранится revocationTTL.
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return ErrInvalidInput
	}

	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(revocationTTL)
	}
	if !expiresAt.After(time.Now()) {
		return nil
	}

	if err := s.tokenRepo.AddToBlacklist(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// IsRevoked проверяет, отозван ли токен
func (s *AuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := s.tokenRepo.IsBlacklisted(ctx, token)
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return revoked, nil
}
