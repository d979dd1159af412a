package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	credentialRepo := newPgxCredentialRepository(dbPool)
	orderRepo := newPgxOrderRepository(dbPool)
	assignmentRepo := newPgxAssignmentRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		UserRepo:         userRepo,
		CredentialRepo:   credentialRepo,
		OrderRepo:        orderRepo,
		AssignmentRepo:   assignmentRepo,
	}
}
