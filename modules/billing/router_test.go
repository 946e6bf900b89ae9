package billing_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/fixology/platform/modules/billing"
	billingsvc "github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/requestid"
	"github.com/fixology/platform/pkg/tenant"
)

const testSecret = "whsec_router_secret"

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) HandleWebhook(ctx context.Context, payload []byte, signature string) (billingsvc.Result, error) {
	args := m.Called(ctx, payload, signature)
	return args.Get(0).(billingsvc.Result), args.Error(1)
}

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func serve(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	requestid.Middleware(h).ServeHTTP(w, r)
	return w
}

func webhookRequest(body []byte, signature string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(body))
	if signature != "" {
		r.Header.Set("Stripe-Signature", signature)
	}
	return r
}

func TestWebhook_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bad signature", errors.Join(billingsvc.ErrAuthentication, errors.New("no valid signature")), http.StatusBadRequest, "invalid_signature"},
		{"malformed", errors.Join(billingsvc.ErrMalformedEvent, errors.New("bad json")), http.StatusBadRequest, "malformed_event"},
		{"persistence", errors.Join(billingsvc.ErrPersistence, errors.New("conn reset")), http.StatusInternalServerError, "internal_server_error"},
		{"provider", errors.Join(billingsvc.ErrProvider, errors.New("stripe 503")), http.StatusInternalServerError, "internal_server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &mockProcessor{}
			p.On("HandleWebhook", mock.Anything, []byte("{}"), "t=1,v1=abc").Return(billingsvc.Result{}, tt.err).Once()

			w := serve(t, billing.Router(billing.RouterOptions{Webhooks: p}), webhookRequest([]byte("{}"), "t=1,v1=abc"))

			p.AssertExpectations(t)
			assert.Equal(t, tt.status, w.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, w.Header().Get(requestid.Header), body.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "conn reset")
		})
	}
}

func TestWebhook_Skipped(t *testing.T) {
	t.Parallel()
	p := &mockProcessor{}
	p.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).Return(billingsvc.Result{
		EventID:   "evt_1",
		EventType: "customer.subscription.updated",
		Status:    billingsvc.ResultSkipped,
		Reason:    billingsvc.ReasonUnresolved,
	}, nil)

	w := serve(t, billing.Router(billing.RouterOptions{Webhooks: p}), webhookRequest([]byte("{}"), "sig"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{
		"event_id":"evt_1",
		"event_type":"customer.subscription.updated",
		"status":"skipped",
		"reason":"unresolved",
		"applied":false
	}}`, w.Body.String())
}

func TestWebhook_BodyLimit(t *testing.T) {
	t.Parallel()
	p := &mockProcessor{}
	router := billing.Router(billing.RouterOptions{Webhooks: p, MaxBodySize: 64})

	w := serve(t, router, webhookRequest([]byte(strings.Repeat("a", 65)), "sig"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	p.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_EndToEnd(t *testing.T) {
	t.Parallel()
	store := tenant.NewMemoryStore()
	shop := tenant.New("Fix It Fast", "fix-it-fast", "owner@fixitfast.test")
	require.NoError(t, store.Create(context.Background(), shop))

	verifier, err := billingsvc.NewStripeVerifier(testSecret, 0)
	require.NoError(t, err)
	prices, err := billingsvc.PriceTableFromMap(map[string]string{"price_pro": "PRO"})
	require.NoError(t, err)
	svc := billingsvc.NewService(verifier, store, billingsvc.WithPriceTable(prices))
	router := billing.Router(billing.RouterOptions{Webhooks: svc, Shops: store})

	payload, err := json.Marshal(map[string]any{
		"id":      "evt_e2e",
		"object":  "event",
		"type":    "customer.subscription.created",
		"created": 1_700_000_000,
		"data": map[string]any{"object": map[string]any{
			"id":       "sub_e2e",
			"object":   "subscription",
			"customer": "cus_e2e",
			"status":   "active",
			"metadata": map[string]string{"shop_id": shop.ID.String()},
			"items": map[string]any{"data": []any{
				map[string]any{"id": "si_1", "price": map[string]any{"id": "price_pro"}},
			}},
		}},
	})
	require.NoError(t, err)

	t.Run("forged", func(t *testing.T) {
		forged := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: "whsec_other"})
		w := serve(t, router, webhookRequest(payload, forged.Header))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, store.Writes())
	})

	t.Run("missing signature", func(t *testing.T) {
		w := serve(t, router, webhookRequest(payload, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, store.Writes())
	})

	t.Run("signed", func(t *testing.T) {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testSecret})
		w := serve(t, router, webhookRequest(payload, signed.Header))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			Data billingsvc.Result `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, billingsvc.ResultProcessed, body.Data.Status)
		assert.Equal(t, shop.ID, body.Data.TenantID)
		assert.True(t, body.Data.Applied)
	})

	t.Run("snapshot", func(t *testing.T) {
		w := serve(t, router, httptest.NewRequest(http.MethodGet, "/shops/"+shop.ID.String()+"/billing", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data billing.Snapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, shop.ID, body.Data.ShopID)
		assert.Equal(t, "ACTIVE", body.Data.Status)
		assert.Equal(t, "PRO", body.Data.Plan)
		assert.Equal(t, "cus_e2e", body.Data.StripeCustomerID)
		assert.Equal(t, "sub_e2e", body.Data.StripeSubscriptionID)
		require.NotNil(t, body.Data.SyncedAt)
	})
}

func TestSnapshot_Errors(t *testing.T) {
	t.Parallel()
	router := billing.Router(billing.RouterOptions{Webhooks: &mockProcessor{}, Shops: tenant.NewMemoryStore()})

	w := serve(t, router, httptest.NewRequest(http.MethodGet, "/shops/"+uuid.NewString()+"/billing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, router, httptest.NewRequest(http.MethodGet, "/shops/not-a-uuid/billing", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_WithoutShops(t *testing.T) {
	t.Parallel()
	router := billing.Router(billing.RouterOptions{Webhooks: &mockProcessor{}})
	w := serve(t, router, httptest.NewRequest(http.MethodGet, "/shops/"+uuid.NewString()+"/billing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Panics(t, func() { billing.Router(billing.RouterOptions{}) })
}
