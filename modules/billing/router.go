package billing

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fixology/platform/handler"
	"github.com/fixology/platform/pkg/binder"
	billingsvc "github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/logger"
	"github.com/fixology/platform/pkg/tenant"
)

// WebhookProcessor handles one verified or unverified webhook delivery.
// *billingsvc.Service implements it.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (billingsvc.Result, error)
}

// ShopReader reads a single shop. tenant.Store implements it.
type ShopReader interface {
	Get(ctx context.Context, id uuid.UUID) (tenant.Tenant, error)
}

// RouterOptions configures the billing module. Webhooks is required; the
// snapshot endpoint is mounted only when Shops is set.
type RouterOptions struct {
	Webhooks WebhookProcessor
	Shops    ShopReader
	Logger   *slog.Logger

	// MaxBodySize caps the webhook payload. Defaults to binder.DefaultMaxBodySize.
	MaxBodySize int64
}

// Router creates the billing module router.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Mount("/", billing.Router(billing.RouterOptions{
//		Webhooks: svc,
//		Shops:    store,
//		Logger:   log,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Webhooks == nil {
		panic("billing: webhook processor is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = binder.DefaultMaxBodySize
	}

	r := chi.NewRouter()

	r.Post("/webhooks/stripe", handler.Wrap(receiveWebhook(opts.Webhooks),
		handler.WithBinders[handler.Context, webhookRequest](
			binder.Header(),
			binder.RawBody(maxBody),
		),
		handler.WithErrorHandler[handler.Context, webhookRequest](handler.NewErrorHandler[handler.Context](log)),
	))

	if opts.Shops != nil {
		r.Get("/shops/{id}/billing", handler.Wrap(shopBilling(opts.Shops),
			handler.WithBinders[handler.Context, snapshotRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[handler.Context, snapshotRequest](handler.NewErrorHandler[handler.Context](log)),
		))
	}

	return r
}
