// Package httpserver runs the webhook HTTP listener with graceful shutdown.
//
// Run blocks until its context is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests for the configured shutdown timeout so a webhook
// that is mid-reconciliation finishes its database write before exit. Stripe
// retries anything that was cut off.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	r.Get("/healthz", httpserver.Liveness())
//	r.Get("/readyz", httpserver.Readiness(log, httpserver.Check{Name: "postgres", Fn: pool.Ping}))
//	err := srv.Run(ctx, r)
//
// Listen failures are wrapped with ErrStart and drain failures with ErrShutdown.
package httpserver
