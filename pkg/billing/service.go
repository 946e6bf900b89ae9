package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fixology/platform/pkg/logger"
	"github.com/fixology/platform/pkg/tenant"
)

// Service processes provider webhooks end to end.
type Service struct {
	verifier   Verifier
	fetcher    SubscriptionFetcher
	resolver   *Resolver
	reconciler *Reconciler
	notifier   Notifier
	prices     PriceTable
	log        *slog.Logger
}

// NewService creates the webhook processing pipeline over store.
func NewService(verifier Verifier, store tenant.Store, opts ...Option) *Service {
	if verifier == nil {
		panic("billing: nil verifier")
	}
	s := &Service{
		verifier: verifier,
		notifier: NopNotifier{},
		prices:   PriceTable{},
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = NewResolver(store)
	s.reconciler = NewReconciler(store, s.log)
	return s
}

// HandleWebhook verifies, resolves, maps and applies one delivery, then
// sends the matching email. Only errors the provider should retry, or
// deliveries that must be rejected, are returned: authentication and
// malformed payloads, persistence and provider failures. Events that resolve
// to no shop are acknowledged with a skipped result.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (Result, error) {
	start := time.Now()

	evt, err := s.verifier.Verify(ctx, payload, signature)
	if err != nil {
		s.log.WarnContext(ctx, "webhook rejected", logger.Error(err))
		return Result{Status: ResultSkipped}, err
	}

	meta := evt.Meta()
	log := s.log.With(logger.EventID(meta.ID), logger.EventType(meta.Type))
	res := Result{EventID: meta.ID, EventType: meta.Type, Status: ResultSkipped}

	if _, ok := evt.(*Unhandled); ok {
		res.Reason = ReasonUnhandled
		log.DebugContext(ctx, "webhook event ignored")
		return res, nil
	}

	if err := s.hydrate(ctx, evt); err != nil {
		log.ErrorContext(ctx, "subscription hydration failed", logger.Error(err))
		return res, err
	}

	tenantID, err := s.resolver.Resolve(ctx, evt)
	if err != nil {
		if errors.Is(err, ErrUnresolvedTenant) {
			res.Reason = ReasonUnresolved
			log.WarnContext(ctx, "webhook event not matched to a tenant", logger.Error(err))
			return res, nil
		}
		log.ErrorContext(ctx, "tenant resolution failed", logger.Error(err))
		return res, err
	}
	log = log.With(logger.TenantID(tenantID))

	outcome := Map(evt, s.prices)
	if outcome.Warning != nil {
		log.WarnContext(ctx, "provider status mapped with fallback", logger.Error(outcome.Warning))
	}

	applied, err := s.reconciler.Apply(ctx, tenantID, evt, outcome)
	if err != nil {
		if errors.Is(err, ErrUnresolvedTenant) {
			applied.Reason = ReasonUnresolved
			log.WarnContext(ctx, "billing update not applied", logger.Error(err))
			return applied, nil
		}
		log.ErrorContext(ctx, "billing update failed", logger.Error(err))
		return applied, err
	}

	if applied.Applied {
		s.notifier.Notify(ctx, Notification{Event: evt, Tenant: applied.Tenant})
	}

	log.InfoContext(ctx, "webhook event handled",
		slog.String("result", applied.Status),
		slog.String("reason", applied.Reason),
		logger.Status(string(applied.Tenant.Status)),
		logger.Plan(string(applied.Tenant.Plan)),
		logger.Duration(time.Since(start)),
	)
	return applied, nil
}

// hydrate loads the subscription of a subscription-mode checkout session
// whose payload only carried the subscription id.
func (s *Service) hydrate(ctx context.Context, evt Event) error {
	checkout, ok := evt.(*CheckoutCompleted)
	if !ok || checkout.Subscription != nil || checkout.SubscriptionID == "" || s.fetcher == nil {
		return nil
	}
	sub, err := s.fetcher.Fetch(ctx, checkout.SubscriptionID)
	if err != nil {
		return err
	}
	if checkout.CustomerID == "" {
		checkout.CustomerID = sub.CustomerID
	}
	checkout.Subscription = sub
	return nil
}
