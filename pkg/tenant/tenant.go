package tenant

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status is the canonical billing status of a shop.
type Status string

const (
	StatusTrial     Status = "TRIAL"
	StatusActive    Status = "ACTIVE"
	StatusPastDue   Status = "PAST_DUE"
	StatusSuspended Status = "SUSPENDED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every billing status in lifecycle order.
var Statuses = []Status{StatusTrial, StatusActive, StatusPastDue, StatusSuspended, StatusCancelled}

func (s Status) Valid() bool { return slices.Contains(Statuses, s) }

// Plan is the subscription tier of a shop.
type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanStarter    Plan = "STARTER"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// Plans lists every plan from the lowest tier up.
var Plans = []Plan{PlanFree, PlanStarter, PlanPro, PlanEnterprise}

func (p Plan) Valid() bool { return slices.Contains(Plans, p) }

// Tenant is a repair shop account together with the billing state mirrored
// from the payment provider.
type Tenant struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Slug                 string     `json:"slug"`
	Email                string     `json:"email"`
	Status               Status     `json:"status"`
	Plan                 Plan       `json:"plan"`
	TrialEndsAt          *time.Time `json:"trial_ends_at,omitempty"`
	StripeCustomerID     string     `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string     `json:"stripe_subscription_id,omitempty"`
	BillingSyncedAt      *time.Time `json:"billing_synced_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// New returns a freshly signed-up shop: on trial, free plan.
func New(name, slug, email string) Tenant {
	now := time.Now().UTC()
	return Tenant{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Email:     email,
		Status:    StatusTrial,
		Plan:      PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
