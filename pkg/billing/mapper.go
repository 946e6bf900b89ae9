package billing

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/fixology/platform/pkg/tenant"
)

// Outcome is the canonical billing state an event implies. Empty Status or
// Plan and an unset TrialEnd mean the field stays as it is.
type Outcome struct {
	Status   tenant.Status
	Plan     tenant.Plan
	TrialEnd tenant.TrialEnd

	// Warning is non-nil when the provider state could not be mapped
	// exactly. It wraps ErrMappingAmbiguity and never blocks the write.
	Warning error
}

// Empty reports whether the outcome changes nothing.
func (o Outcome) Empty() bool {
	return o.Status == "" && o.Plan == "" && !o.TrialEnd.Set
}

var providerStatuses = map[stripe.SubscriptionStatus]tenant.Status{
	stripe.SubscriptionStatusTrialing:          tenant.StatusTrial,
	stripe.SubscriptionStatusActive:            tenant.StatusActive,
	stripe.SubscriptionStatusPastDue:           tenant.StatusPastDue,
	stripe.SubscriptionStatusUnpaid:            tenant.StatusPastDue,
	stripe.SubscriptionStatusCanceled:          tenant.StatusCancelled,
	stripe.SubscriptionStatusIncomplete:        tenant.StatusSuspended,
	stripe.SubscriptionStatusIncompleteExpired: tenant.StatusSuspended,
	stripe.SubscriptionStatusPaused:            tenant.StatusSuspended,
}

// MapProviderStatus converts a provider subscription status. Unknown values
// map to SUSPENDED together with an ErrMappingAmbiguity warning.
func MapProviderStatus(status string) (tenant.Status, error) {
	if s, ok := providerStatuses[stripe.SubscriptionStatus(status)]; ok {
		return s, nil
	}
	return tenant.StatusSuspended, fmt.Errorf("%w: %q", ErrMappingAmbiguity, status)
}

// Map derives the canonical billing outcome of an event. It performs no I/O.
func Map(evt Event, prices PriceTable) Outcome {
	switch e := evt.(type) {
	case *CheckoutCompleted:
		if e.Subscription == nil {
			return Outcome{}
		}
		return mapSubscription(*e.Subscription, prices)

	case *SubscriptionChanged:
		return mapSubscription(e.Subscription, prices)

	case *SubscriptionDeleted:
		return Outcome{Status: tenant.StatusCancelled}

	case *InvoicePayment:
		if e.Failed {
			return Outcome{Status: tenant.StatusPastDue}
		}
		// Zero-amount invoices (trial start, fully discounted) say nothing
		// about the payment standing.
		if e.AmountPaid <= 0 {
			return Outcome{}
		}
		return Outcome{Status: tenant.StatusActive}
	}
	return Outcome{}
}

func mapSubscription(sub Subscription, prices PriceTable) Outcome {
	status, warn := MapProviderStatus(sub.Status)
	out := Outcome{
		Status:   status,
		TrialEnd: tenant.TrialEnd{Set: true, At: sub.TrialEnd},
		Warning:  warn,
	}
	if plan, ok := prices.Plan(sub.PriceID); ok {
		out.Plan = plan
	}
	return out
}
