package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/subscription"

	"github.com/fixology/platform/pkg/logger"
)

// SubscriptionFetcher loads the current state of a provider subscription.
type SubscriptionFetcher interface {
	Fetch(ctx context.Context, id string) (*Subscription, error)
}

// StripeSubscriptions retrieves subscriptions through the Stripe API.
type StripeSubscriptions struct {
	client subscription.Client
}

// StripeOption configures the Stripe API client.
type StripeOption func(*stripe.BackendConfig)

// WithStripeURL points the client at another API host. Used against test servers.
func WithStripeURL(url string) StripeOption {
	return func(c *stripe.BackendConfig) {
		if url != "" {
			c.URL = stripe.String(url)
		}
	}
}

// WithStripeHTTPClient overrides the HTTP client used for API calls.
func WithStripeHTTPClient(client *http.Client) StripeOption {
	return func(c *stripe.BackendConfig) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithStripeRetries sets how many times failed API calls are retried.
func WithStripeRetries(n int64) StripeOption {
	return func(c *stripe.BackendConfig) {
		c.MaxNetworkRetries = stripe.Int64(n)
	}
}

// WithStripeLogger routes client logs into log.
func WithStripeLogger(log *slog.Logger) StripeOption {
	return func(c *stripe.BackendConfig) {
		if log != nil {
			c.LeveledLogger = &stripeLogger{log: log}
		}
	}
}

// NewStripeSubscriptions creates a fetcher authenticated with the secret API key.
func NewStripeSubscriptions(apiKey string, opts ...StripeOption) (*StripeSubscriptions, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 10 * time.Second},
		MaxNetworkRetries: stripe.Int64(2),
		LeveledLogger:     &stripeLogger{log: slog.Default()},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &StripeSubscriptions{
		client: subscription.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Key: apiKey,
		},
	}, nil
}

func (s *StripeSubscriptions) Fetch(ctx context.Context, id string) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty subscription id", ErrProvider)
	}
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := s.client.Get(id, params)
	if err != nil {
		return nil, errors.Join(ErrProvider, fmt.Errorf("get subscription %s: %w", id, err))
	}
	out := subscriptionFromStripe(sub)
	return &out, nil
}

// stripeLogger adapts slog to the Stripe client's leveled logger.
type stripeLogger struct {
	log *slog.Logger
}

func (l *stripeLogger) Debugf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...), logger.Component("stripe"))
}

func (l *stripeLogger) Infof(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...), logger.Component("stripe"))
}

func (l *stripeLogger) Warnf(format string, v ...any) {
	l.log.Warn(fmt.Sprintf(format, v...), logger.Component("stripe"))
}

func (l *stripeLogger) Errorf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...), logger.Component("stripe"))
}
