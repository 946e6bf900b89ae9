// Package billing reconciles shop billing state with Stripe webhooks.
//
// A delivery flows through Service.HandleWebhook:
//
//	verify (StripeVerifier) -> hydrate checkout (SubscriptionFetcher)
//	  -> resolve shop (Resolver) -> map (Map) -> apply (Reconciler) -> notify (Notifier)
//
// Events are decoded into one concrete type per kind (CheckoutCompleted,
// SubscriptionChanged, SubscriptionDeleted, InvoicePayment, Unhandled).
// Map is pure and turns an event into the canonical status, plan and trial
// end of a shop. Reconciler writes that outcome through tenant.Store.ApplyBilling,
// guarded by the event timestamp (last write wins) and by the lifecycle graph,
// which keeps a cancelled shop cancelled until a new checkout or subscription.
//
// Errors are classified with the sentinels in errors.go. ErrAuthentication and
// ErrMalformedEvent reject the delivery, ErrPersistence and ErrProvider ask the
// provider to retry, and ErrNotification is only ever logged.
package billing
