package domain

import "time"

// Role defines the account kinds known to the application.
type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleTailor     Role = "TAILOR"
	RoleCustomer   Role = "CUSTOMER"
	RoleStitcher   Role = "STITCHER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleTailor, RoleCustomer, RoleStitcher:
		return true
	}
	return false
}

// CanProvision reports whether an account with role r may create an account
// with role target. Superadmins create admins and tailors; admins and tailors
// create the production-side accounts under their organization.
func (r Role) CanProvision(target Role) bool {
	switch r {
	case RoleSuperadmin:
		return target == RoleAdmin || target == RoleTailor
	case RoleAdmin, RoleTailor:
		return target == RoleStitcher || target == RoleCustomer
	}
	return false
}

// User represents an account: a profile row paired with an auth credential.
type User struct {
	UserID         string  `json:"userID"` // Primary key, shared with the credential row
	Role           Role    `json:"role"`
	OrganizationID *string `json:"organizationID"` // Nil only for superadmin accounts
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Username       string  `json:"username"` // Short login name; required for stitchers
	IsActive       bool    `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// BelongsTo reports whether the user is scoped to the given organization.
// Superadmins are tenant-less and never "belong" to one.
func (u *User) BelongsTo(organizationID string) bool {
	return u.OrganizationID != nil && *u.OrganizationID == organizationID
}

// Credential is the identity side of an account. It carries the login secret
// and confirmation flags; the profile lives on User.
type Credential struct {
	UserID                 string     `json:"userID"` // Shared primary key with users
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	EmailConfirmed         bool       `json:"emailConfirmed"`
	PhoneConfirmed         bool       `json:"phoneConfirmed"`
	AuthProvider           string     `json:"authProvider"` // "local" or "google"
	ProviderUserID         *string    `json:"providerUserID,omitempty"`
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// GoogleUserInfo holds the subset of the Google ID token payload we consume.
type GoogleUserInfo struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
}
