package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/tenant"
)

func TestResolver_Priority(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := tenant.NewMemoryStore()

	byMetadata := seedShop(t, store, nil)
	byReference := seedShop(t, store, nil)
	byCustomer := seedShop(t, store, func(s *tenant.Tenant) { s.StripeCustomerID = "cus_known" })
	bySubscription := seedShop(t, store, func(s *tenant.Tenant) { s.StripeSubscriptionID = "sub_known" })

	r := billing.NewResolver(store)

	tests := []struct {
		name string
		evt  billing.Event
		want uuid.UUID
	}{
		{
			name: "metadata shop_id wins over everything",
			evt: &billing.CheckoutCompleted{
				Metadata:          map[string]string{"shop_id": byMetadata.ID.String()},
				ClientReferenceID: byReference.ID.String(),
				CustomerID:        "cus_known",
			},
			want: byMetadata.ID,
		},
		{
			name: "tenant_id key is accepted",
			evt: &billing.SubscriptionChanged{Subscription: billing.Subscription{
				Metadata:   map[string]string{"tenant_id": byMetadata.ID.String()},
				CustomerID: "cus_known",
			}},
			want: byMetadata.ID,
		},
		{
			name: "expanded checkout subscription metadata",
			evt: &billing.CheckoutCompleted{Subscription: &billing.Subscription{
				Metadata: map[string]string{"shop_id": byMetadata.ID.String()},
			}},
			want: byMetadata.ID,
		},
		{
			name: "invalid metadata falls through to reference",
			evt: &billing.CheckoutCompleted{
				Metadata:          map[string]string{"shop_id": "not-a-uuid"},
				ClientReferenceID: byReference.ID.String(),
			},
			want: byReference.ID,
		},
		{
			name: "unknown metadata id falls through to customer",
			evt: &billing.InvoicePayment{
				Metadata:   map[string]string{"shop_id": uuid.NewString()},
				CustomerID: "cus_known",
			},
			want: byCustomer.ID,
		},
		{
			name: "customer lookup",
			evt:  &billing.SubscriptionDeleted{Subscription: billing.Subscription{CustomerID: "cus_known", ID: "sub_known"}},
			want: byCustomer.ID,
		},
		{
			name: "subscription lookup when customer is unknown",
			evt:  &billing.InvoicePayment{CustomerID: "cus_new", SubscriptionID: "sub_known"},
			want: bySubscription.ID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Resolve(ctx, tt.evt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Unresolved(t *testing.T) {
	t.Parallel()
	r := billing.NewResolver(tenant.NewMemoryStore())

	_, err := r.Resolve(context.Background(), &billing.InvoicePayment{
		Envelope:   billing.Envelope{ID: "evt_1"},
		CustomerID: "cus_nobody",
		Metadata:   map[string]string{"shop_id": uuid.NewString()},
	})
	assert.ErrorIs(t, err, billing.ErrUnresolvedTenant)

	_, err = r.Resolve(context.Background(), &billing.Unhandled{})
	assert.ErrorIs(t, err, billing.ErrUnresolvedTenant)
}

type brokenStore struct {
	*tenant.MemoryStore
}

var errDatabaseDown = errors.New("database down")

func (brokenStore) Get(context.Context, uuid.UUID) (tenant.Tenant, error) {
	return tenant.Tenant{}, errDatabaseDown
}

func (brokenStore) IDByCustomer(context.Context, string) (uuid.UUID, error) {
	return uuid.Nil, errDatabaseDown
}

func (brokenStore) ApplyBilling(context.Context, uuid.UUID, tenant.BillingUpdate) (tenant.ApplyResult, error) {
	return tenant.ApplyResult{}, errDatabaseDown
}

func TestResolver_StoreFailure(t *testing.T) {
	t.Parallel()
	r := billing.NewResolver(brokenStore{tenant.NewMemoryStore()})

	_, err := r.Resolve(context.Background(), &billing.CheckoutCompleted{ClientReferenceID: uuid.NewString()})
	assert.ErrorIs(t, err, billing.ErrPersistence)
	assert.ErrorIs(t, err, errDatabaseDown)

	_, err = r.Resolve(context.Background(), &billing.InvoicePayment{CustomerID: "cus_1"})
	assert.ErrorIs(t, err, billing.ErrPersistence)
}
