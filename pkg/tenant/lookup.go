package tenant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fixology/platform/pkg/cache"
	"github.com/fixology/platform/pkg/logger"
)

// LookupCache remembers which shop owns an external identifier.
// Implementations must be safe for concurrent use; a miss is (uuid.Nil, false, nil).
type LookupCache interface {
	Get(ctx context.Context, key string) (uuid.UUID, bool, error)
	Set(ctx context.Context, key string, id uuid.UUID) error
}

// MemoryLookup is an in-process LookupCache on top of a TTL LRU.
type MemoryLookup struct {
	lru *cache.LRU[string, uuid.UUID]
}

// NewMemoryLookup creates an in-process lookup cache.
func NewMemoryLookup(size int, ttl time.Duration, opts ...cache.Option) *MemoryLookup {
	return &MemoryLookup{lru: cache.NewLRU[string, uuid.UUID](size, ttl, opts...)}
}

func (m *MemoryLookup) Get(_ context.Context, key string) (uuid.UUID, bool, error) {
	id, ok := m.lru.Get(key)
	return id, ok, nil
}

func (m *MemoryLookup) Set(_ context.Context, key string, id uuid.UUID) error {
	m.lru.Put(key, id)
	return nil
}

// CachedStore decorates a Store, caching the customer and subscription id
// lookups. Cache failures are logged and fall through to the store.
type CachedStore struct {
	Store
	cache LookupCache
	log   *slog.Logger
}

// NewCachedStore wraps store with c. A nil logger discards cache errors.
func NewCachedStore(store Store, c LookupCache, log *slog.Logger) *CachedStore {
	if store == nil || c == nil {
		panic("tenant: nil store or cache")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &CachedStore{Store: store, cache: c, log: log}
}

func (s *CachedStore) IDByCustomer(ctx context.Context, customerID string) (uuid.UUID, error) {
	return s.lookup(ctx, "customer:"+customerID, customerID, s.Store.IDByCustomer)
}

func (s *CachedStore) IDBySubscription(ctx context.Context, subscriptionID string) (uuid.UUID, error) {
	return s.lookup(ctx, "subscription:"+subscriptionID, subscriptionID, s.Store.IDBySubscription)
}

func (s *CachedStore) lookup(
	ctx context.Context,
	key, externalID string,
	load func(context.Context, string) (uuid.UUID, error),
) (uuid.UUID, error) {
	if externalID == "" {
		return uuid.Nil, ErrTenantNotFound
	}
	id, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "tenant lookup cache read failed", logger.Error(err), slog.String("key", key))
	}
	if ok {
		return id, nil
	}

	id, err = load(ctx, externalID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.cache.Set(ctx, key, id); err != nil {
		s.log.WarnContext(ctx, "tenant lookup cache write failed", logger.Error(err), slog.String("key", key))
	}
	return id, nil
}

// ApplyBilling refreshes cached identifiers after a write that assigned them.
func (s *CachedStore) ApplyBilling(ctx context.Context, id uuid.UUID, u BillingUpdate) (ApplyResult, error) {
	res, err := s.Store.ApplyBilling(ctx, id, u)
	if err != nil || !res.Applied {
		return res, err
	}
	var errs []error
	if u.CustomerID != "" {
		errs = append(errs, s.cache.Set(ctx, "customer:"+u.CustomerID, id))
	}
	if u.SubscriptionID != "" {
		errs = append(errs, s.cache.Set(ctx, "subscription:"+u.SubscriptionID, id))
	}
	if err := errors.Join(errs...); err != nil {
		s.log.WarnContext(ctx, "tenant lookup cache refresh failed", logger.Error(err), logger.TenantID(id))
	}
	return res, nil
}
