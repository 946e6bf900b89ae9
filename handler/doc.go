// Package handler provides type-safe HTTP handlers for the JSON endpoints of
// the billing service.
//
// A HandlerFunc receives a request struct already populated by binders and
// returns a Response; Wrap adapts it to http.HandlerFunc:
//
//	type webhookRequest struct {
//		Signature string `header:"Stripe-Signature"`
//		Payload   []byte `body:"raw"`
//	}
//
//	r.Post("/webhooks/stripe", handler.Wrap(receive,
//		handler.WithBinders[handler.Context, webhookRequest](
//			binder.Header(),
//			binder.RawBody(binder.DefaultMaxBodySize),
//		),
//		handler.WithErrorHandler[handler.Context, webhookRequest](
//			handler.NewErrorHandler[handler.Context](log),
//		),
//	))
//
// Errors carry their HTTP status through HTTPError, usually joined with the
// underlying cause via errors.Join. Only the HTTPError key is written to the
// client; the full chain is logged together with the request id.
package handler
