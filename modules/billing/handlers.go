package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fixology/platform/handler"
	billingsvc "github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/tenant"
)

type webhookRequest struct {
	Signature string `header:"Stripe-Signature"`
	Payload   []byte `body:"raw"`
}

func receiveWebhook(p WebhookProcessor) handler.HandlerFunc[handler.Context, webhookRequest] {
	return func(ctx handler.Context, req webhookRequest) handler.Response {
		res, err := p.HandleWebhook(ctx, req.Payload, req.Signature)
		if err != nil {
			return handler.Error(webhookError(err))
		}
		return handler.JSON(res)
	}
}

// webhookError maps service failures to the status the provider should see:
// 400 stops retries for requests that can never succeed, 500 asks for a retry.
func webhookError(err error) error {
	switch {
	case errors.Is(err, billingsvc.ErrAuthentication):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, billingsvc.ErrMalformedEvent):
		return errors.Join(ErrMalformedPayload, err)
	default:
		return errors.Join(handler.ErrInternalServerError, err)
	}
}

type snapshotRequest struct {
	ID uuid.UUID `path:"id,required"`
}

// Snapshot is the read-only billing view of a shop.
type Snapshot struct {
	ShopID               uuid.UUID  `json:"shop_id"`
	Status               string     `json:"status"`
	Plan                 string     `json:"plan"`
	TrialEndsAt          *time.Time `json:"trial_ends_at,omitempty"`
	StripeCustomerID     string     `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string     `json:"stripe_subscription_id,omitempty"`
	SyncedAt             *time.Time `json:"synced_at,omitempty"`
}

func snapshotOf(t tenant.Tenant) Snapshot {
	return Snapshot{
		ShopID:               t.ID,
		Status:               string(t.Status),
		Plan:                 string(t.Plan),
		TrialEndsAt:          t.TrialEndsAt,
		StripeCustomerID:     t.StripeCustomerID,
		StripeSubscriptionID: t.StripeSubscriptionID,
		SyncedAt:             t.BillingSyncedAt,
	}
}

func shopBilling(shops ShopReader) handler.HandlerFunc[handler.Context, snapshotRequest] {
	return func(ctx handler.Context, req snapshotRequest) handler.Response {
		shop, err := shops.Get(ctx, req.ID)
		switch {
		case errors.Is(err, tenant.ErrTenantNotFound):
			return handler.Error(errors.Join(handler.ErrNotFound, err))
		case err != nil:
			return handler.Error(errors.Join(handler.ErrInternalServerError, err))
		}
		return handler.JSON(snapshotOf(shop))
	}
}
