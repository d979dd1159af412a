package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/platform/config"
	"github.com/stitchdesk/tailor_shop_app/internal/utils"
)

// tokenService implements the TokenSvcFacade interface
type tokenService struct {
	BaseService
	credentialRepo portsrepo.CredentialRepositoryFacade
	userRepo       portsrepo.UserReader
	cfg            *config.Config
}

// NewTokenService creates a new token service with the provided dependencies
func NewTokenService(
	credentialRepo portsrepo.CredentialRepositoryFacade,
	userRepo portsrepo.UserReader,
	cfg *config.Config,
) portssvc.TokenSvcFacade {
	return &tokenService{
		credentialRepo: credentialRepo,
		userRepo:       userRepo,
		cfg:            cfg,
	}
}

// Ensure tokenService implements the TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiry := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token",
			slog.String("user_id", user.UserID))
		return "", time.Time{}, apperrors.NewAppError(500, "failed to generate access token", err)
	}
	return token, expiry, nil
}

// GenerateRefreshToken creates a new opaque refresh token and stores its hash.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token",
			slog.String("user_id", user.UserID))
		return "", time.Time{}, apperrors.NewAppError(500, "failed to generate refresh token", err)
	}

	expiry := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	if err := s.credentialRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(token), expiry); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token hash",
			slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

// ValidateRefreshToken checks a presented refresh token against the stored
// hash and expiry, returning the account on success.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	cred, err := s.credentialRepo.FindCredentialByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(401, "invalid refresh token", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if cred.RefreshTokenHash == "" || !utils.CompareRefreshTokenHash(refreshToken, cred.RefreshTokenHash) {
		return nil, apperrors.NewAppError(401, "invalid refresh token", apperrors.ErrUnauthorized)
	}
	if cred.RefreshTokenExpiryTime == nil || time.Now().After(*cred.RefreshTokenExpiryTime) {
		return nil, apperrors.NewAppError(401, "refresh token expired", apperrors.ErrRefreshTokenExpired)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewForbiddenError("account is deactivated")
	}
	return user, nil
}

// RevokeRefreshToken clears the stored refresh token (logout).
func (s *tokenService) RevokeRefreshToken(ctx context.Context, userID string) error {
	if err := s.credentialRepo.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Nothing to revoke; logout is idempotent.
			return nil
		}
		s.LogError(ctx, err, "Failed to clear refresh token",
			slog.String("user_id", userID))
		return err
	}
	return nil
}
