// Package requestid tags every HTTP request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID supplied by the caller (load
// balancers and Stripe retries through a proxy commonly set one) and otherwise
// generates a time-ordered UUID. The id is stored in the request context,
// echoed in the response header, and picked up by the logger through
// LoggerExtractor so every log line of a webhook delivery can be correlated.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
