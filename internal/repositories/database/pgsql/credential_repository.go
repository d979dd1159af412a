package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
)

type PgxCredentialRepository struct {
	BaseRepository
}

// newPgxCredentialRepository creates a new repository for auth credentials.
func newPgxCredentialRepository(pool *pgxpool.Pool) portsrepo.CredentialRepositoryFacade {
	return &PgxCredentialRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCredentialRepository implements portsrepo.CredentialRepositoryFacade
var _ portsrepo.CredentialRepositoryFacade = (*PgxCredentialRepository)(nil)

var FULL_CREDENTIAL_SELECT_QUERY = `
SELECT
	c.user_id, c.email, c.password_hash, c.email_confirmed, c.phone_confirmed,
	c.auth_provider, c.provider_user_id, c.refresh_token_hash,
	c.refresh_token_expiry_time, c.created_at
FROM auth_credentials c
`

func (r *PgxCredentialRepository) getCredentials(ctx context.Context, filterQuery string, args ...any) ([]domain.Credential, error) {
	query := FULL_CREDENTIAL_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credentials", err)
	}
	defer rows.Close()
	creds, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Credential])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Credential{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect credential rows", err)
	}
	return creds, nil
}

func (r *PgxCredentialRepository) SaveCredential(ctx context.Context, cred domain.Credential) error {
	query := `
		INSERT INTO auth_credentials (
			user_id, email, password_hash, email_confirmed, phone_confirmed,
			auth_provider, provider_user_id, refresh_token_hash,
			refresh_token_expiry_time, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		cred.UserID,
		cred.Email,
		cred.PasswordHash,
		cred.EmailConfirmed,
		cred.PhoneConfirmed,
		cred.AuthProvider,
		cred.ProviderUserID,
		cred.RefreshTokenHash,
		cred.RefreshTokenExpiryTime,
		cred.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("an account with email " + cred.Email + " already exists")
			}
		}
		return apperrors.NewAppError(500, "failed to save credential for user "+cred.UserID, err)
	}
	return nil
}

// DeleteCredential hard-deletes the credential row. This is the compensating
// action of the provisioning flow, so a missing row is not an error.
func (r *PgxCredentialRepository) DeleteCredential(ctx context.Context, userID string) error {
	query := `DELETE FROM auth_credentials WHERE user_id = $1;`
	_, err := r.Pool.Exec(ctx, query, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete credential for user "+userID, err)
	}
	return nil
}

func (r *PgxCredentialRepository) FindCredentialByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	query := `WHERE c.user_id = $1`
	creds, err := r.getCredentials(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &creds[0], nil
}

func (r *PgxCredentialRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	query := `WHERE c.email = $1`
	creds, err := r.getCredentials(ctx, query, email)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &creds[0], nil
}

func (r *PgxCredentialRepository) FindCredentialByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.Credential, error) {
	query := `WHERE c.auth_provider = $1 AND c.provider_user_id = $2`
	creds, err := r.getCredentials(ctx, query, authProvider, providerUserID)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &creds[0], nil
}

func (r *PgxCredentialRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	query := `UPDATE auth_credentials SET password_hash = $1 WHERE user_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update password for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCredentialRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
		UPDATE auth_credentials
		SET refresh_token_hash = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, refreshTokenHash, refreshTokenExpiryTime, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update refresh token for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCredentialRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
		UPDATE auth_credentials
		SET refresh_token_hash = '', refresh_token_expiry_time = NULL
		WHERE user_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear refresh token for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
