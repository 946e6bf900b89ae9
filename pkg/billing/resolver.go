package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fixology/platform/pkg/tenant"
)

// Metadata keys checked, in order, for an embedded shop id.
var tenantMetadataKeys = []string{"shop_id", "tenant_id"}

// Resolver finds the shop an event belongs to.
type Resolver struct {
	store tenant.Store
}

// NewResolver creates a resolver over store. Wrap the store with
// tenant.NewCachedStore to cache external id lookups.
func NewResolver(store tenant.Store) *Resolver {
	if store == nil {
		panic("billing: nil tenant store")
	}
	return &Resolver{store: store}
}

// Resolve tries, in order: a shop id in the event metadata, the checkout
// client reference id, the stored customer id and the stored subscription
// id. Embedded ids must parse and exist; otherwise the next rule is tried.
// When nothing matches it returns ErrUnresolvedTenant.
func (r *Resolver) Resolve(ctx context.Context, evt Event) (uuid.UUID, error) {
	for _, candidate := range embeddedTenantIDs(evt) {
		id, err := uuid.Parse(candidate)
		if err != nil || id == uuid.Nil {
			continue
		}
		if _, err := r.store.Get(ctx, id); err != nil {
			if errors.Is(err, tenant.ErrTenantNotFound) {
				continue
			}
			return uuid.Nil, errors.Join(ErrPersistence, err)
		}
		return id, nil
	}

	customerID, subscriptionID := ExternalIDs(evt)
	if customerID != "" {
		id, err := r.store.IDByCustomer(ctx, customerID)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, tenant.ErrTenantNotFound):
			return uuid.Nil, errors.Join(ErrPersistence, err)
		}
	}
	if subscriptionID != "" {
		id, err := r.store.IDBySubscription(ctx, subscriptionID)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, tenant.ErrTenantNotFound):
			return uuid.Nil, errors.Join(ErrPersistence, err)
		}
	}

	return uuid.Nil, fmt.Errorf("%w: event %s (customer %q, subscription %q)",
		ErrUnresolvedTenant, evt.Meta().ID, customerID, subscriptionID)
}

// embeddedTenantIDs lists the shop id candidates carried by the event
// itself, highest priority first.
func embeddedTenantIDs(evt Event) []string {
	var sources []map[string]string
	var reference string

	switch e := evt.(type) {
	case *CheckoutCompleted:
		sources = append(sources, e.Metadata)
		if e.Subscription != nil {
			sources = append(sources, e.Subscription.Metadata)
		}
		reference = e.ClientReferenceID
	case *SubscriptionChanged:
		sources = append(sources, e.Subscription.Metadata)
	case *SubscriptionDeleted:
		sources = append(sources, e.Subscription.Metadata)
	case *InvoicePayment:
		sources = append(sources, e.Metadata)
	}

	var out []string
	for _, md := range sources {
		for _, key := range tenantMetadataKeys {
			if v := md[key]; v != "" {
				out = append(out, v)
			}
		}
	}
	if reference != "" {
		out = append(out, reference)
	}
	return out
}
