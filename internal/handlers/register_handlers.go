package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/stitchdesk/tailor_shop_app/cmd/docs"
	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/middleware"
	"github.com/stitchdesk/tailor_shop_app/internal/platform/config"
	"github.com/stitchdesk/tailor_shop_app/internal/platform/storage"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	uploader storage.Uploader,
) {
	registerHomeRoutes(r)

	// Public authentication routes (rate limited)
	registerAuthRoutes(r, cfg, services)
	registerGoogleOAuthRoutes(r, cfg, services)

	setupAPIV1Routes(r, cfg, services, uploader)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	uploader storage.Uploader,
) {
	// AuthMiddleware authenticates, RoleGateMiddleware resolves the caller
	// profile and enforces the role routing table on every v1 route.
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.RoleGateMiddleware(services.User),
	)

	registerOrganizationRoutes(v1, services.Organization)
	registerUserRoutes(v1, services.User)
	registerOrderRoutes(v1, services.Order, uploader)
	registerAssignmentRoutes(v1, services.Assignment)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
