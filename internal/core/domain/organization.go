package domain

// SubscriptionPlan identifies the billing tier of an organization.
type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "FREE"
	PlanStandard SubscriptionPlan = "STANDARD"
	PlanPremium  SubscriptionPlan = "PREMIUM"
)

// Organization is the tenant boundary: every non-superadmin user, order and
// work assignment belongs to exactly one organization.
type Organization struct {
	OrganizationID   string           `json:"organizationID"` // Primary key (UUID)
	Name             string           `json:"name"`
	Slug             string           `json:"slug"` // Unique, URL-safe
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan"`
	IsActive         bool             `json:"isActive"`
	AuditFields
}
