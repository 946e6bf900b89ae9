// Package binder fills typed request structs from HTTP requests.
//
// Each binder reads one source and only touches fields carrying its tag, so
// binders can be combined on one struct:
//
//	type WebhookRequest struct {
//		Signature string `header:"Stripe-Signature,required"`
//		Payload   []byte `body:"raw"`
//	}
//
//	handler.Wrap(h, handler.WithBinders[handler.Context, WebhookRequest](
//		binder.Header(),
//		binder.RawBody(binder.DefaultMaxBodySize),
//	))
//
// Supported field types are strings, integers, booleans, slices of those,
// pointers for optional values, and any type implementing
// encoding.TextUnmarshaler (uuid.UUID, time.Time). A ",required" tag option
// turns a missing value into ErrMissingValue.
//
// Errors wrap one of the sentinels in errors.go; ErrBodyTooLarge lets callers
// answer 413.
package binder
