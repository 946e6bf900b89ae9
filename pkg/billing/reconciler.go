package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fixology/platform/pkg/logger"
	"github.com/fixology/platform/pkg/tenant"
)

// Skip reasons reported in Result.Reason besides the store's stale and blocked.
const (
	ReasonUnhandled  = "unhandled"
	ReasonUnresolved = "unresolved"
	ReasonNoChange   = "no_change"
)

// Result describes what processing an event did.
type Result struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	TenantID  uuid.UUID `json:"tenant_id,omitzero"`
	Applied   bool      `json:"applied"`

	// Tenant is the shop after the write, or as it stood when skipped.
	Tenant tenant.Tenant `json:"-"`
}

const (
	ResultProcessed = "processed"
	ResultSkipped   = "skipped"
)

// Reconciler writes mapped outcomes to the shop record.
type Reconciler struct {
	store tenant.Store
	log   *slog.Logger
}

// NewReconciler creates a reconciler writing through store.
func NewReconciler(store tenant.Store, log *slog.Logger) *Reconciler {
	if store == nil {
		panic("billing: nil tenant store")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Reconciler{store: store, log: log}
}

// Apply performs the single conditional write for one event. Writes older
// than the shop's last synced event, or not allowed from its current status,
// are skipped and reported through Result.Reason.
func (r *Reconciler) Apply(ctx context.Context, tenantID uuid.UUID, evt Event, out Outcome) (Result, error) {
	meta := evt.Meta()
	res := Result{
		EventID:   meta.ID,
		EventType: meta.Type,
		TenantID:  tenantID,
		Status:    ResultSkipped,
	}

	update := tenant.BillingUpdate{
		Status:   out.Status,
		Plan:     out.Plan,
		TrialEnd: out.TrialEnd,
		SyncedAt: meta.Created,
	}
	switch evt.Kind() {
	case KindCheckoutCompleted, KindSubscriptionCreated:
		update.CustomerID, update.SubscriptionID = ExternalIDs(evt)
	}

	if out.Empty() && update.CustomerID == "" && update.SubscriptionID == "" {
		res.Reason = ReasonNoChange
		return res, nil
	}

	if out.Status != "" {
		allowed, ok := AllowedFrom(evt.Kind(), out.Status)
		if !ok {
			res.Reason = string(tenant.SkipBlocked)
			r.log.WarnContext(ctx, "no lifecycle transition for event",
				logger.TenantID(tenantID),
				logger.EventID(meta.ID),
				logger.EventType(meta.Type),
				logger.Status(string(out.Status)),
			)
			return res, nil
		}
		update.AllowedFrom = allowed
	}

	applied, err := r.store.ApplyBilling(ctx, tenantID, update)
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		return res, errors.Join(ErrUnresolvedTenant, err)
	case errors.Is(err, tenant.ErrIdentifierConflict):
		return res, errors.Join(ErrUnresolvedTenant, fmt.Errorf("tenant %s: %w", tenantID, err))
	case err != nil:
		return res, errors.Join(ErrPersistence, err)
	}

	res.Tenant = applied.Tenant
	res.Applied = applied.Applied
	if applied.Applied {
		res.Status = ResultProcessed
	} else {
		res.Reason = string(applied.Reason)
		r.log.InfoContext(ctx, "billing update skipped",
			logger.TenantID(tenantID),
			logger.EventID(meta.ID),
			logger.EventType(meta.Type),
			slog.String("reason", res.Reason),
		)
	}
	return res, nil
}
