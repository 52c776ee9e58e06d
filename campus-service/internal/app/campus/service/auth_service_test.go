package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusreview/campus-service/internal/app/campus/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLogout_BlacklistsToken(t *testing.T) {
	tokenRepo := new(mocks.MockTokenRepository)
	service := NewAuthService(tokenRepo)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	tokenRepo.On("AddToBlacklist", ctx, "token", expiresAt).Return(nil)

	assert.NoError(t, service.Logout(ctx, "token", expiresAt))
	tokenRepo.AssertExpectations(t)
}

func TestLogout_ExpiredTokenSkipped(t *testing.T) {
	tokenRepo := new(mocks.MockTokenRepository)
	service := NewAuthService(tokenRepo)

	assert.NoError(t, service.Logout(context.Background(), "token", time.Now().Add(-time.Minute)))
	tokenRepo.AssertNotCalled(t, "AddToBlacklist", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogout_NoExpiryUsesDefaultTTL(t *testing.T) {
	tokenRepo := new(mocks.MockTokenRepository)
	service := NewAuthService(tokenRepo)
	ctx := context.Background()

	tokenRepo.On("AddToBlacklist", ctx, "token", mock.MatchedBy(func(at time.Time) bool {
		return at.After(time.Now().Add(revocationTTL - time.Minute))
	})).Return(nil)

	assert.NoError(t, service.Logout(ctx, "token", time.Time{}))
	tokenRepo.AssertExpectations(t)
}

func TestLogout_Errors(t *testing.T) {
	tokenRepo := new(mocks.MockTokenRepository)
	service := NewAuthService(tokenRepo)
	ctx := context.Background()

	assert.ErrorIs(t, service.Logout(ctx, "", time.Now().Add(time.Hour)), ErrInvalidInput)

	tokenRepo.On("AddToBlacklist", ctx, "token", mock.Anything).Return(errors.New("redis down"))
	assert.Error(t, service.Logout(ctx, "token", time.Now().Add(time.Hour)))
}

func TestIsRevoked(t *testing.T) {
	tokenRepo := new(mocks.MockTokenRepository)
	service := NewAuthService(tokenRepo)
	ctx := context.Background()

	tokenRepo.On("IsBlacklisted", ctx, "revoked").Return(true, nil)
	tokenRepo.On("IsBlacklisted", ctx, "broken").Return(false, errors.New("redis down"))

	revoked, err := service.IsRevoked(ctx, "revoked")
	assert.NoError(t, err)
	assert.True(t, revoked)

	_, err = service.IsRevoked(ctx, "broken")
	assert.Error(t, err)
}
