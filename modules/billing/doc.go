// Package billing mounts the HTTP surface of the billing reconciliation
// service: the Stripe webhook receiver and a read-only billing snapshot per
// shop for the dashboard.
//
// Webhook status codes tell Stripe whether to retry. Deliveries that were
// processed or deliberately skipped answer 200; a bad signature or
// undecodable event answers 400; storage and provider failures answer 500 so
// the delivery is retried later.
package billing
