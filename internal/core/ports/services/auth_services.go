package services

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// TokenSvcFacade handles JWT access tokens and opaque refresh tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a new JWT access token for the given user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates and stores (hashed) a new refresh token.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateRefreshToken checks a presented refresh token against the
	// stored hash and expiry, returning the account on success.
	ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error)

	// RevokeRefreshToken clears the stored refresh token (logout).
	RevokeRefreshToken(ctx context.Context, userID string) error
}

// GoogleOAuthHandlerSvcFacade drives the Google sign-in flow for customer
// self-service accounts.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a CSRF token for the OAuth round trip.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// VerifyIDToken validates the ID token in the exchange response and
	// extracts the user info we consume.
	VerifyIDToken(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
}
