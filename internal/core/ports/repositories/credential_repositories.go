package repositories

import (
	"context"
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// CredentialReader defines read operations for auth credentials.
type CredentialReader interface {
	// FindCredentialByUserID retrieves the credential paired with a user row.
	FindCredentialByUserID(ctx context.Context, userID string) (*domain.Credential, error)

	// FindCredentialByEmail retrieves a credential by its login email.
	FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)

	// FindCredentialByProviderDetails retrieves a credential created through an
	// external OAuth provider.
	FindCredentialByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.Credential, error)
}

// CredentialWriter defines write operations for auth credentials.
//
// Credentials are deliberately stored without a foreign key to users: account
// provisioning creates the credential first and the profile row second, with
// a best-effort DeleteCredential as the compensating action when the profile
// insert fails.
type CredentialWriter interface {
	// SaveCredential persists a new credential.
	SaveCredential(ctx context.Context, cred domain.Credential) error

	// DeleteCredential hard-deletes a credential. Used only as the
	// compensating action during provisioning rollback.
	DeleteCredential(ctx context.Context, userID string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error

	// UpdateRefreshToken stores the hash and expiry of a newly issued refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken removes the stored refresh token (logout).
	ClearRefreshToken(ctx context.Context, userID string) error
}

// CredentialRepositoryFacade combines all credential-related repository interfaces.
type CredentialRepositoryFacade interface {
	CredentialReader
	CredentialWriter
}
