package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fixology/platform/pkg/pg"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps shops in the shops table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store on top of a pgx pool or transaction.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("tenant: nil db")
	}
	return &PostgresStore{db: db}
}

const tenantColumns = `id, name, slug, email, billing_status, plan, trial_ends_at,
	stripe_customer_id, stripe_subscription_id, billing_synced_at, created_at, updated_at`

const insertTenantSQL = `
INSERT INTO shops (id, name, slug, email, billing_status, plan, trial_ends_at,
	stripe_customer_id, stripe_subscription_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)`

// applyBillingSQL is the whole reconciliation write: ordering check,
// lifecycle guard and field updates happen in one statement so concurrent
// deliveries for the same shop cannot interleave.
const applyBillingSQL = `
UPDATE shops SET
	billing_status = COALESCE(NULLIF($2::text, ''), billing_status),
	plan = COALESCE(NULLIF($3::text, ''), plan),
	trial_ends_at = CASE WHEN $4::bool THEN $5::timestamptz ELSE trial_ends_at END,
	stripe_customer_id = COALESCE(NULLIF($6::text, ''), stripe_customer_id),
	stripe_subscription_id = COALESCE(NULLIF($7::text, ''), stripe_subscription_id),
	billing_synced_at = COALESCE($8::timestamptz, billing_synced_at),
	updated_at = now()
WHERE id = $1
	AND ($8::timestamptz IS NULL OR billing_synced_at IS NULL OR billing_synced_at <= $8::timestamptz)
	AND (cardinality($9::text[]) = 0 OR billing_status = ANY($9::text[]))
RETURNING ` + tenantColumns

func (s *PostgresStore) Create(ctx context.Context, t Tenant) error {
	if !t.Status.Valid() || !t.Plan.Valid() {
		return ErrInvalidBillingState
	}
	_, err := s.db.Exec(ctx, insertTenantSQL,
		t.ID, t.Name, t.Slug, t.Email, string(t.Status), string(t.Plan), t.TrialEndsAt,
		t.StripeCustomerID, t.StripeSubscriptionID, t.CreatedAt, t.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(ErrDuplicateTenant, err)
	}
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Tenant, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tenantColumns+` FROM shops WHERE id = $1`, id)
	t, err := scanTenant(row)
	if pg.IsNotFoundError(err) {
		return Tenant{}, ErrTenantNotFound
	}
	if err != nil {
		return Tenant{}, errors.Join(ErrStorage, err)
	}
	return t, nil
}

func (s *PostgresStore) IDByCustomer(ctx context.Context, customerID string) (uuid.UUID, error) {
	return s.findID(ctx, `SELECT id FROM shops WHERE stripe_customer_id = $1`, customerID)
}

func (s *PostgresStore) IDBySubscription(ctx context.Context, subscriptionID string) (uuid.UUID, error) {
	return s.findID(ctx, `SELECT id FROM shops WHERE stripe_subscription_id = $1`, subscriptionID)
}

func (s *PostgresStore) findID(ctx context.Context, query, key string) (uuid.UUID, error) {
	if key == "" {
		return uuid.Nil, ErrTenantNotFound
	}
	var id uuid.UUID
	err := s.db.QueryRow(ctx, query, key).Scan(&id)
	if pg.IsNotFoundError(err) {
		return uuid.Nil, ErrTenantNotFound
	}
	if err != nil {
		return uuid.Nil, errors.Join(ErrStorage, err)
	}
	return id, nil
}

func (s *PostgresStore) ApplyBilling(ctx context.Context, id uuid.UUID, u BillingUpdate) (ApplyResult, error) {
	if err := u.validate(); err != nil {
		return ApplyResult{}, err
	}

	var syncedAt *time.Time
	if !u.SyncedAt.IsZero() {
		v := u.SyncedAt.UTC()
		syncedAt = &v
	}
	allowed := make([]string, 0, len(u.AllowedFrom))
	for _, st := range u.AllowedFrom {
		allowed = append(allowed, string(st))
	}

	row := s.db.QueryRow(ctx, applyBillingSQL,
		id, string(u.Status), string(u.Plan), u.TrialEnd.Set, u.TrialEnd.At,
		u.CustomerID, u.SubscriptionID, syncedAt, allowed,
	)
	t, err := scanTenant(row)
	switch {
	case err == nil:
		return ApplyResult{Tenant: t, Applied: true}, nil
	case pg.IsDuplicateKeyError(err):
		return ApplyResult{}, errors.Join(ErrIdentifierConflict, err)
	case pg.IsCheckViolationError(err):
		return ApplyResult{}, errors.Join(ErrInvalidBillingState, err)
	case !pg.IsNotFoundError(err):
		return ApplyResult{}, errors.Join(ErrStorage, err)
	}

	// Nothing updated: the shop is missing, or one of the guards held.
	current, err := s.Get(ctx, id)
	if err != nil {
		return ApplyResult{}, err
	}
	reason := SkipBlocked
	if syncedAt != nil && current.BillingSyncedAt != nil && current.BillingSyncedAt.After(*syncedAt) {
		reason = SkipStale
	}
	return ApplyResult{Tenant: current, Reason: reason}, nil
}

func scanTenant(row pgx.Row) (Tenant, error) {
	var (
		t                   Tenant
		status, plan        string
		customerID, subID   *string
		trialEnds, syncedAt *time.Time
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Email, &status, &plan, &trialEnds,
		&customerID, &subID, &syncedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return Tenant{}, err
	}
	t.Status = Status(status)
	t.Plan = Plan(plan)
	t.TrialEndsAt = copyTime(trialEnds)
	t.BillingSyncedAt = copyTime(syncedAt)
	if customerID != nil {
		t.StripeCustomerID = *customerID
	}
	if subID != nil {
		t.StripeSubscriptionID = *subID
	}
	if !t.Status.Valid() || !t.Plan.Valid() {
		return Tenant{}, fmt.Errorf("%w: row %s has status %q plan %q", ErrInvalidBillingState, t.ID, status, plan)
	}
	return t, nil
}
