// Command fixology runs the billing reconciliation service: it receives
// Stripe webhooks and keeps each repair shop's billing status, plan and
// trial end in Postgres in step with the payment provider.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/fixology/platform/db"
	billingapi "github.com/fixology/platform/modules/billing"
	"github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/clientip"
	"github.com/fixology/platform/pkg/config"
	"github.com/fixology/platform/pkg/email"
	"github.com/fixology/platform/pkg/environment"
	"github.com/fixology/platform/pkg/httpserver"
	"github.com/fixology/platform/pkg/logger"
	"github.com/fixology/platform/pkg/pg"
	"github.com/fixology/platform/pkg/redis"
	"github.com/fixology/platform/pkg/requestid"
	"github.com/fixology/platform/pkg/tenant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fixology stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, strings.ToLower(cfg.Name)),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, db.Migrations(), log); err != nil {
		return err
	}

	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	var lookups tenant.LookupCache
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		lookups = redis.NewIDCache(client, cfg.Redis.KeyPrefix, cfg.Billing.LookupCacheTTL)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	} else {
		lookups = tenant.NewMemoryLookup(cfg.Billing.LookupCacheSize, cfg.Billing.LookupCacheTTL)
	}
	store := tenant.NewCachedStore(tenant.NewPostgresStore(pool), lookups, log)

	svc, err := newBillingService(cfg, store, log)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(clientip.NewResolver(cfg.TrustedIPHeaders)),
		environment.Middleware(cfg.Env),
	)
	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, checks...))
	r.Mount("/", billingapi.Router(billingapi.RouterOptions{
		Webhooks: svc,
		Shops:    store,
		Logger:   log,
	}))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func newBillingService(cfg appConfig, store tenant.Store, log *slog.Logger) (*billing.Service, error) {
	prices, err := cfg.Billing.PriceTable()
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		log.Warn("price table is empty; plans will not change from webhooks", logger.Component("billing"))
	}

	verifier, err := billing.NewStripeVerifier(cfg.Billing.WebhookSecret, cfg.Billing.WebhookTolerance)
	if err != nil {
		return nil, err
	}

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		return nil, err
	}
	notifier := billing.NewEmailNotifier(sender,
		billing.WithNotifyTimeout(cfg.Billing.NotifyTimeout),
		billing.WithNotifierLogger(log),
		billing.WithBranding(cfg.Name, cfg.Email.SupportEmail),
		billing.WithBillingURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/settings/billing"),
	)

	opts := []billing.Option{
		billing.WithPriceTable(prices),
		billing.WithNotifier(notifier),
		billing.WithLogger(log),
	}

	if cfg.Billing.SecretKey != "" {
		stripeOpts := []billing.StripeOption{billing.WithStripeLogger(log)}
		if cfg.Billing.APIURL != "" {
			stripeOpts = append(stripeOpts, billing.WithStripeURL(cfg.Billing.APIURL))
		}
		fetcher, err := billing.NewStripeSubscriptions(cfg.Billing.SecretKey, stripeOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, billing.WithSubscriptionFetcher(fetcher))
	} else {
		log.Warn("STRIPE_SECRET_KEY not set; checkout sessions without an expanded subscription only record ids",
			logger.Component("billing"))
	}

	return billing.NewService(verifier, store, opts...), nil
}

