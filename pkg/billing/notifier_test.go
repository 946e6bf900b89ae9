package billing_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/email"
	"github.com/fixology/platform/pkg/logger"
	"github.com/fixology/platform/pkg/tenant"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, p email.SendEmailParams) error {
	return m.Called(ctx, p).Error(0)
}

func testShop() tenant.Tenant {
	shop := tenant.New("Phone Doctor", "phone-doctor", "owner@phonedoctor.test")
	shop.Plan = tenant.PlanPro
	return shop
}

func TestEmailNotifier_Kinds(t *testing.T) {
	t.Parallel()
	cancelAt := unix(1_702_000_000)
	next := unix(1_700_100_000)

	tests := []struct {
		name     string
		evt      billing.Event
		tag      string
		contains []string
	}{
		{
			name:     "dunning",
			evt:      &billing.InvoicePayment{Failed: true, AmountDue: 2900, Currency: "usd", NextAttempt: &next},
			tag:      "billing-dunning",
			contains: []string{"USD 29.00", "Pro", "November 16, 2023"},
		},
		{
			name:     "receipt",
			evt:      &billing.InvoicePayment{AmountPaid: 4900, Currency: "eur", HostedInvoiceURL: "https://pay.test/in_1"},
			tag:      "billing-receipt",
			contains: []string{"EUR 49.00", "https://pay.test/in_1"},
		},
		{
			name: "cancellation",
			evt: &billing.SubscriptionDeleted{Subscription: billing.Subscription{
				CancelAtPeriodEnd: true, CancelAt: &cancelAt,
			}},
			tag:      "billing-cancellation",
			contains: []string{"December 8, 2023"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &recordingSender{}
			n := billing.NewEmailNotifier(sender, billing.WithBranding("Fixology", "help@fixology.test"))

			n.Notify(context.Background(), billing.Notification{Event: tt.evt, Tenant: testShop()})

			sent := sender.Sent()
			require.Len(t, sent, 1)
			assert.Equal(t, "owner@phonedoctor.test", sent[0].SendTo)
			assert.Equal(t, tt.tag, sent[0].Tag)
			assert.NotEmpty(t, sent[0].Subject)
			for _, s := range tt.contains {
				assert.Contains(t, sent[0].BodyHTML, s)
			}
		})
	}
}

func TestEmailNotifier_NoEmailForOtherKinds(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	n := billing.NewEmailNotifier(sender)

	n.Notify(context.Background(), billing.Notification{Event: &billing.SubscriptionChanged{}, Tenant: testShop()})
	n.Notify(context.Background(), billing.Notification{Event: &billing.CheckoutCompleted{}, Tenant: testShop()})

	assert.Empty(t, sender.Sent())
}

func TestEmailNotifier_FallbackRecipient(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	n := billing.NewEmailNotifier(sender)
	shop := testShop()
	shop.Email = ""

	n.Notify(context.Background(), billing.Notification{
		Event:  &billing.InvoicePayment{Failed: true, CustomerEmail: "billing@phonedoctor.test"},
		Tenant: shop,
	})

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "billing@phonedoctor.test", sent[0].SendTo)
}

func TestEmailNotifier_SwallowsFailures(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	sender := &mockSender{}
	sender.On("SendEmail", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.AnythingOfType("email.SendEmailParams")).Return(errors.New("postmark unreachable")).Once()

	n := billing.NewEmailNotifier(sender,
		billing.WithNotifyTimeout(time.Second),
		billing.WithNotifierLogger(logger.New(logger.WithOutput(&logs))),
	)

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), billing.Notification{
			Event:  &billing.InvoicePayment{Envelope: billing.Envelope{ID: "evt_9"}, Failed: true},
			Tenant: testShop(),
		})
	})

	sender.AssertExpectations(t)
	assert.Contains(t, logs.String(), "billing notification failed")
	assert.Contains(t, logs.String(), "postmark unreachable")
	assert.Contains(t, logs.String(), "evt_9")
}

func TestEmailNotifier_NoRecipientIsLogged(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	sender := &recordingSender{}
	n := billing.NewEmailNotifier(sender, billing.WithNotifierLogger(logger.New(logger.WithOutput(&logs))))
	shop := testShop()
	shop.Email = ""

	n.Notify(context.Background(), billing.Notification{Event: &billing.SubscriptionDeleted{}, Tenant: shop})

	assert.Empty(t, sender.Sent())
	assert.Contains(t, logs.String(), "no recipient")
}

func TestCancellationEffective(t *testing.T) {
	t.Parallel()
	cancelAt, ended, canceled, created := unix(400), unix(300), unix(200), unix(100)

	tests := []struct {
		name string
		sub  billing.Subscription
		want time.Time
	}{
		{"period end uses cancel_at", billing.Subscription{CancelAtPeriodEnd: true, CancelAt: &cancelAt, EndedAt: &ended}, cancelAt},
		{"immediate uses ended_at", billing.Subscription{CancelAt: &cancelAt, EndedAt: &ended, CanceledAt: &canceled}, ended},
		{"canceled_at", billing.Subscription{CanceledAt: &canceled}, canceled},
		{"event time", billing.Subscription{}, created},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := billing.CancellationEffective(&billing.SubscriptionDeleted{
				Envelope:     billing.Envelope{Created: created},
				Subscription: tt.sub,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}
