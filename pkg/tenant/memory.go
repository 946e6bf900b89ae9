package tenant

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory. It mirrors the conditional
// write rules of PostgresStore and is used by tests and local runs.
type MemoryStore struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]Tenant
	now     func() time.Time
	writes  int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[uuid.UUID]Tenant),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, t Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[t.ID]; ok {
		return ErrDuplicateTenant
	}
	for _, existing := range s.tenants {
		if existing.Slug == t.Slug {
			return ErrDuplicateTenant
		}
	}
	if !t.Status.Valid() || !t.Plan.Valid() {
		return ErrInvalidBillingState
	}
	s.tenants[t.ID] = clone(t)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return clone(t), nil
}

func (s *MemoryStore) IDByCustomer(_ context.Context, customerID string) (uuid.UUID, error) {
	return s.findID(func(t Tenant) bool { return customerID != "" && t.StripeCustomerID == customerID })
}

func (s *MemoryStore) IDBySubscription(_ context.Context, subscriptionID string) (uuid.UUID, error) {
	return s.findID(func(t Tenant) bool { return subscriptionID != "" && t.StripeSubscriptionID == subscriptionID })
}

func (s *MemoryStore) findID(match func(Tenant) bool) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tenants {
		if match(t) {
			return id, nil
		}
	}
	return uuid.Nil, ErrTenantNotFound
}

func (s *MemoryStore) ApplyBilling(_ context.Context, id uuid.UUID, u BillingUpdate) (ApplyResult, error) {
	if err := u.validate(); err != nil {
		return ApplyResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return ApplyResult{}, ErrTenantNotFound
	}

	if !u.SyncedAt.IsZero() && t.BillingSyncedAt != nil && t.BillingSyncedAt.After(u.SyncedAt) {
		return ApplyResult{Tenant: clone(t), Reason: SkipStale}, nil
	}
	if len(u.AllowedFrom) > 0 && !slices.Contains(u.AllowedFrom, t.Status) {
		return ApplyResult{Tenant: clone(t), Reason: SkipBlocked}, nil
	}
	for otherID, other := range s.tenants {
		if otherID == id {
			continue
		}
		if (u.CustomerID != "" && other.StripeCustomerID == u.CustomerID) ||
			(u.SubscriptionID != "" && other.StripeSubscriptionID == u.SubscriptionID) {
			return ApplyResult{}, ErrIdentifierConflict
		}
	}

	if u.Status != "" {
		t.Status = u.Status
	}
	if u.Plan != "" {
		t.Plan = u.Plan
	}
	if u.TrialEnd.Set {
		t.TrialEndsAt = copyTime(u.TrialEnd.At)
	}
	if u.CustomerID != "" {
		t.StripeCustomerID = u.CustomerID
	}
	if u.SubscriptionID != "" {
		t.StripeSubscriptionID = u.SubscriptionID
	}
	if !u.SyncedAt.IsZero() {
		t.BillingSyncedAt = copyTime(&u.SyncedAt)
	}
	t.UpdatedAt = s.now()

	s.tenants[id] = t
	s.writes++
	return ApplyResult{Tenant: clone(t), Applied: true}, nil
}

// Writes returns the number of applied billing writes.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func clone(t Tenant) Tenant {
	t.TrialEndsAt = copyTime(t.TrialEndsAt)
	t.BillingSyncedAt = copyTime(t.BillingSyncedAt)
	return t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
