package billing

import "errors"

var (
	// ErrAuthentication: the webhook signature did not verify. Nothing was read or written.
	ErrAuthentication = errors.New("billing: webhook signature verification failed")

	// ErrMalformedEvent: the event verified but its payload could not be decoded.
	ErrMalformedEvent = errors.New("billing: malformed webhook event")

	// ErrUnresolvedTenant: no shop could be matched to the event. The event is acknowledged.
	ErrUnresolvedTenant = errors.New("billing: event does not resolve to a tenant")

	// ErrMappingAmbiguity: the provider reported a status the mapper does not know.
	// It is only ever logged; the event is still applied with the fallback status.
	ErrMappingAmbiguity = errors.New("billing: unrecognized provider subscription status")

	// ErrPersistence: reading or writing the shop failed. The provider should retry.
	ErrPersistence = errors.New("billing: persistence failure")

	// ErrProvider: a call back to the payment provider failed. The provider should retry.
	ErrProvider = errors.New("billing: payment provider request failed")

	// ErrNotification: an email could not be rendered or sent. Logged, never returned.
	ErrNotification = errors.New("billing: notification failed")

	ErrMissingWebhookSecret = errors.New("billing: webhook secret is required")
	ErrMissingAPIKey        = errors.New("billing: provider API key is required")
	ErrInvalidPriceTable    = errors.New("billing: invalid price table")
)
