package repositories

import (
	"context"
	"time"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

// UserReader defines read operations for user profile data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their short login name.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsersByOrganization retrieves users of an organization, optionally
	// filtered by role.
	ListUsersByOrganization(ctx context.Context, organizationID string, role *domain.Role, limit, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user profile data.
type UserWriter interface {
	// SaveUser persists a new user profile row.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser replaces mutable profile fields.
	UpdateUser(ctx context.Context, user domain.User) error

	// SetUserActive toggles the soft-deactivation flag.
	SetUserActive(ctx context.Context, userID string, isActive bool, updatedBy string) error

	// MarkUserDeleted soft-deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
