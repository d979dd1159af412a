package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
)

func TestDecide_PublicPaths(t *testing.T) {
	paths := []string{"/auth/login", "/auth/register", "/health", "/swagger/index.html"}
	for _, p := range paths {
		assert.Equal(t, DecisionAllow, Decide(p, false, ""), "public path %s should allow anonymous", p)
		assert.Equal(t, DecisionAllow, Decide(p, true, domain.RoleCustomer), "public path %s should allow authenticated", p)
	}
}

func TestDecide_UnauthenticatedRedirectsToLogin(t *testing.T) {
	paths := []string{"/api/v1/orders", "/api/v1/users/abc", "/api/v1/profile", "/dashboard"}
	for _, p := range paths {
		assert.Equal(t, DecisionRedirectLogin, Decide(p, false, ""), "path %s", p)
	}
}

func TestDecide_RoleTable(t *testing.T) {
	testCases := []struct {
		name string
		path string
		role domain.Role
		want GateDecision
	}{
		{"superadmin manages organizations", "/api/v1/organizations", domain.RoleSuperadmin, DecisionAllow},
		{"tailor cannot manage organizations", "/api/v1/organizations", domain.RoleTailor, DecisionRedirectHome},
		{"tailor lists users", "/api/v1/users", domain.RoleTailor, DecisionAllow},
		{"admin lists users", "/api/v1/users", domain.RoleAdmin, DecisionAllow},
		{"stitcher cannot list users", "/api/v1/users", domain.RoleStitcher, DecisionRedirectHome},
		{"customer cannot list users", "/api/v1/users/xyz", domain.RoleCustomer, DecisionRedirectHome},
		{"customer reads own profile", "/api/v1/users/me", domain.RoleCustomer, DecisionAllow},
		{"stitcher reads own profile", "/api/v1/users/me", domain.RoleStitcher, DecisionAllow},
		{"tailor reads orders", "/api/v1/orders", domain.RoleTailor, DecisionAllow},
		{"customer reads orders", "/api/v1/orders/ord-1", domain.RoleCustomer, DecisionAllow},
		{"stitcher cannot read orders", "/api/v1/orders", domain.RoleStitcher, DecisionRedirectHome},
		{"stitcher reads own assignments", "/api/v1/assignments/mine", domain.RoleStitcher, DecisionAllow},
		{"tailor cannot use the mine listing", "/api/v1/assignments/mine", domain.RoleTailor, DecisionRedirectHome},
		{"tailor reads stitcher stats", "/api/v1/assignments/stats", domain.RoleTailor, DecisionAllow},
		{"stitcher cannot read stats", "/api/v1/assignments/stats", domain.RoleStitcher, DecisionRedirectHome},
		{"stitcher updates an assignment", "/api/v1/assignments/as-1/progress", domain.RoleStitcher, DecisionAllow},
		{"customer cannot touch assignments", "/api/v1/assignments", domain.RoleCustomer, DecisionRedirectHome},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.path, true, tc.role))
		})
	}
}

// Any authenticated role may reach paths outside the restricted table.
func TestDecide_UnlistedPathsOpenWhenAuthenticated(t *testing.T) {
	roles := []domain.Role{
		domain.RoleSuperadmin,
		domain.RoleAdmin,
		domain.RoleTailor,
		domain.RoleCustomer,
		domain.RoleStitcher,
	}
	for _, r := range roles {
		assert.Equal(t, DecisionAllow, Decide("/api/v1/profile", true, r), "role %s", r)
		assert.Equal(t, DecisionAllow, Decide("/dashboard", true, r), "role %s", r)
	}
}

func TestLoginRedirectURL_PreservesRequestedPath(t *testing.T) {
	assert.Equal(t, "/auth/login?redirect=%2Fapi%2Fv1%2Forders", LoginRedirectURL("/api/v1/orders"))
}
