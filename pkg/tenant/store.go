package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists shops. ApplyBilling is the only write path for billing
// fields and must be atomic per shop.
type Store interface {
	Create(ctx context.Context, t Tenant) error
	Get(ctx context.Context, id uuid.UUID) (Tenant, error)
	// IDByCustomer returns ErrTenantNotFound when no shop has the customer id.
	IDByCustomer(ctx context.Context, customerID string) (uuid.UUID, error)
	// IDBySubscription returns ErrTenantNotFound when no shop has the subscription id.
	IDBySubscription(ctx context.Context, subscriptionID string) (uuid.UUID, error)
	ApplyBilling(ctx context.Context, id uuid.UUID, u BillingUpdate) (ApplyResult, error)
}

// TrialEnd is a tri-state update of trial_ends_at: untouched, cleared or set.
type TrialEnd struct {
	Set bool
	At  *time.Time
}

// BillingUpdate describes one conditional write of billing fields.
// Zero values mean "leave unchanged".
type BillingUpdate struct {
	Status         Status
	Plan           Plan
	TrialEnd       TrialEnd
	CustomerID     string
	SubscriptionID string

	// SyncedAt is the provider timestamp of the event. The write is skipped
	// when the shop already reflects a newer event.
	SyncedAt time.Time

	// AllowedFrom restricts the current status the shop must be in for the
	// write to happen. Empty means any status.
	AllowedFrom []Status
}

// SkipReason explains why ApplyBilling left a shop untouched.
type SkipReason string

const (
	SkipNone    SkipReason = ""
	SkipStale   SkipReason = "stale"
	SkipBlocked SkipReason = "blocked"
)

// ApplyResult is the outcome of ApplyBilling. Tenant holds the row after the
// write, or the current row when the write was skipped.
type ApplyResult struct {
	Tenant  Tenant
	Applied bool
	Reason  SkipReason
}
