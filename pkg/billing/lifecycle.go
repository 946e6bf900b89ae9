package billing

import (
	"github.com/fixology/platform/pkg/statemachine"
	"github.com/fixology/platform/pkg/tenant"
)

var (
	liveStatuses = []tenant.Status{
		tenant.StatusTrial,
		tenant.StatusActive,
		tenant.StatusPastDue,
		tenant.StatusSuspended,
	}

	// lifecycle lists which billing status changes each event kind may cause.
	// CANCELLED is only left through a new checkout or subscription.
	lifecycle = statemachine.NewBuilder[tenant.Status, Kind]().
			From(tenant.Statuses...).On(KindCheckoutCompleted, KindSubscriptionCreated).To(tenant.Statuses...).
			From(liveStatuses...).On(KindSubscriptionUpdated).To(tenant.Statuses...).
			From(tenant.StatusCancelled).On(KindSubscriptionUpdated).To(tenant.StatusCancelled).
			From(tenant.Statuses...).On(KindSubscriptionDeleted).To(tenant.StatusCancelled).
			From(liveStatuses...).On(KindPaymentFailed).To(tenant.StatusPastDue).
			From(liveStatuses...).On(KindPaymentSucceeded).To(tenant.StatusActive).
			MustBuild()
)

// AllowedFrom returns the statuses a shop may currently be in for kind to
// move it to target. ok is false when no such transition exists.
func AllowedFrom(kind Kind, target tenant.Status) (from []tenant.Status, ok bool) {
	from = lifecycle.Sources(kind, target)
	return from, len(from) > 0
}

// CanTransition reports whether kind may move a shop from one status to another.
func CanTransition(kind Kind, from, to tenant.Status) bool {
	return lifecycle.Can(from, kind, to)
}
