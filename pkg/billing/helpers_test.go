package billing_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/fixology/platform/pkg/email"
	"github.com/fixology/platform/pkg/tenant"
)

const testSecret = "whsec_test_secret"

// stripeEvent builds a raw webhook body around a data.object.
func stripeEvent(t *testing.T, id, eventType string, created int64, object map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"created":     created,
		"livemode":    false,
		"api_version": "2025-07-30.basil",
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	return body
}

// sign returns the Stripe-Signature header for payload.
func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  secret,
	}).Header
}

func subscriptionObject(id, customer, status, price string, trialEnd int64, metadata map[string]string) map[string]any {
	obj := map[string]any{
		"id":       id,
		"object":   "subscription",
		"customer": customer,
		"status":   status,
		"items": map[string]any{
			"object": "list",
			"data": []any{
				map[string]any{
					"id":     "si_" + id,
					"object": "subscription_item",
					"price":  map[string]any{"id": price, "object": "price"},
				},
			},
		},
	}
	if trialEnd > 0 {
		obj["trial_end"] = trialEnd
	}
	if metadata != nil {
		obj["metadata"] = metadata
	}
	return obj
}

func seedShop(t *testing.T, store *tenant.MemoryStore, mutate func(*tenant.Tenant)) tenant.Tenant {
	t.Helper()
	shop := tenant.New("Phone Doctor", "phone-doctor-"+uuid.NewString()[:8], "owner@phonedoctor.test")
	if mutate != nil {
		mutate(&shop)
	}
	require.NoError(t, store.Create(context.Background(), shop))
	return shop
}

func unix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// recordingSender captures sent emails and fails when err is set.
type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (r *recordingSender) SendEmail(ctx context.Context, p email.SendEmailParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, p)
	return r.err
}

func (r *recordingSender) Sent() []email.SendEmailParams {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]email.SendEmailParams, len(r.sent))
	copy(out, r.sent)
	return out
}
