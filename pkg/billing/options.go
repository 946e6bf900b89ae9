package billing

import "log/slog"

// Option configures a Service.
type Option func(*Service)

// WithPriceTable sets the price id to plan table used by the mapper.
func WithPriceTable(t PriceTable) Option {
	return func(s *Service) {
		if t != nil {
			s.prices = t
		}
	}
}

// WithSubscriptionFetcher enables hydrating checkout sessions that only
// reference their subscription by id.
func WithSubscriptionFetcher(f SubscriptionFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
