package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	"github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
)

// GateDecision is the outcome of evaluating a request path against the
// role routing table.
type GateDecision int

const (
	// DecisionAllow lets the request through to the handler.
	DecisionAllow GateDecision = iota
	// DecisionRedirectLogin sends unauthenticated callers to the login
	// page, preserving the originally requested path.
	DecisionRedirectLogin
	// DecisionRedirectHome sends authenticated callers whose role is not
	// permitted for the path back to the home page.
	DecisionRedirectHome
)

// routeRule restricts a path prefix to a set of roles. Rules are matched
// in order; the first matching prefix wins.
type routeRule struct {
	prefix string
	roles  []domain.Role
}

// publicPrefixes are reachable without authentication.
var publicPrefixes = []string{
	"/auth",
	"/health",
	"/swagger",
}

// restrictedRoutes maps path prefixes to the roles allowed through them.
// More specific prefixes must come before their parents.
var restrictedRoutes = []routeRule{
	{prefix: "/api/v1/organizations", roles: []domain.Role{domain.RoleSuperadmin}},
	{prefix: "/api/v1/users/me", roles: []domain.Role{domain.RoleSuperadmin, domain.RoleAdmin, domain.RoleTailor, domain.RoleCustomer, domain.RoleStitcher}},
	{prefix: "/api/v1/users", roles: []domain.Role{domain.RoleSuperadmin, domain.RoleAdmin, domain.RoleTailor}},
	{prefix: "/api/v1/orders", roles: []domain.Role{domain.RoleTailor, domain.RoleAdmin, domain.RoleCustomer}},
	{prefix: "/api/v1/assignments/stats", roles: []domain.Role{domain.RoleTailor, domain.RoleAdmin}},
	{prefix: "/api/v1/assignments/mine", roles: []domain.Role{domain.RoleStitcher}},
	{prefix: "/api/v1/assignments", roles: []domain.Role{domain.RoleTailor, domain.RoleAdmin, domain.RoleStitcher}},
}

// IsPublicPath reports whether the path is reachable without a session.
func IsPublicPath(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Decide evaluates a single request against the routing table. Public
// paths always pass. Unauthenticated callers are sent to login for
// everything else. Authenticated callers pass unless the path matches a
// restricted prefix whose role set excludes them; paths outside the
// table are open to any authenticated role.
func Decide(path string, authenticated bool, role domain.Role) GateDecision {
	if IsPublicPath(path) {
		return DecisionAllow
	}
	if !authenticated {
		return DecisionRedirectLogin
	}
	for _, rule := range restrictedRoutes {
		if !strings.HasPrefix(path, rule.prefix) {
			continue
		}
		for _, allowed := range rule.roles {
			if role == allowed {
				return DecisionAllow
			}
		}
		return DecisionRedirectHome
	}
	return DecisionAllow
}

// LoginRedirectURL builds the login redirect target carrying the
// originally requested path.
func LoginRedirectURL(requestedPath string) string {
	return "/auth/login?redirect=" + url.QueryEscape(requestedPath)
}

// RoleGateMiddleware resolves the authenticated caller's profile and
// enforces the role routing table. It must run after AuthMiddleware so
// the user ID is present in the request context. The resolved profile is
// stored in the context for handlers via GetCurrentUserFromContext.
func RoleGateMiddleware(userSvc services.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		path := c.Request.URL.Path

		userID, authenticated := GetUserIDFromContext(c)

		var user *domain.User
		if authenticated {
			var err error
			user, err = userSvc.GetUserByID(c.Request.Context(), userID)
			if err != nil {
				logger.Warn("Failed to resolve caller profile", "error", err, "user_id", userID)
				authenticated = false
			} else if !user.IsActive {
				logger.Warn("Deactivated caller rejected", "user_id", userID)
				authenticated = false
			}
		}

		var role domain.Role
		if user != nil {
			role = user.Role
		}

		switch Decide(path, authenticated, role) {
		case DecisionRedirectLogin:
			c.Redirect(http.StatusFound, LoginRedirectURL(path))
			c.Abort()
			return
		case DecisionRedirectHome:
			logger.Warn("Role denied for path", "role", role, "path", path)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		if user != nil {
			c.Request = c.Request.WithContext(WithCurrentUser(c.Request.Context(), user))
		}
		c.Next()
	}
}
