package services

import (
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/platform/config"
)

// NewServiceContainer wires every service with its repository dependencies
// and returns the container consumed by the handlers.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	organizationService := NewOrganizationService(repos.OrganizationRepo)
	userService := NewUserService(repos.UserRepo, repos.CredentialRepo, repos.OrganizationRepo, cfg.InternalEmailDomain)
	orderService := NewOrderService(repos.OrderRepo, repos.UserRepo)
	assignmentService := NewAssignmentService(repos.AssignmentRepo, repos.OrderRepo, repos.UserRepo)
	tokenService := NewTokenService(repos.CredentialRepo, repos.UserRepo, cfg)
	googleOAuthHandler := NewGoogleOAuthHandlerService(cfg)

	return &portssvc.ServiceContainer{
		Organization:       organizationService,
		User:               userService,
		Order:              orderService,
		Assignment:         assignmentService,
		TokenService:       tokenService,
		GoogleOAuthHandler: googleOAuthHandler,
	}
}
