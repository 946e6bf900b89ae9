package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Verifier authenticates a raw webhook delivery and decodes it.
type Verifier interface {
	Verify(ctx context.Context, payload []byte, signature string) (Event, error)
}

// StripeVerifier checks the Stripe-Signature header (HMAC-SHA256 over the
// timestamped payload, constant-time comparison, bounded clock skew) before
// the body is parsed.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

// NewStripeVerifier creates a verifier for one webhook endpoint secret.
// A zero tolerance uses the library default of five minutes.
func NewStripeVerifier(secret string, tolerance time.Duration) (*StripeVerifier, error) {
	if secret == "" {
		return nil, ErrMissingWebhookSecret
	}
	return &StripeVerifier{secret: secret, tolerance: tolerance}, nil
}

func (v *StripeVerifier) Verify(_ context.Context, payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, errors.Join(ErrAuthentication, err)
		}
		// Signature held but the body is not an event.
		return nil, errors.Join(ErrMalformedEvent, err)
	}
	return decodeStripeEvent(evt)
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func decodeStripeEvent(evt stripe.Event) (Event, error) {
	if evt.ID == "" || evt.Type == "" {
		return nil, fmt.Errorf("%w: event id or type missing", ErrMalformedEvent)
	}
	env := Envelope{
		ID:       evt.ID,
		Type:     string(evt.Type),
		Created:  time.Unix(evt.Created, 0).UTC(),
		Livemode: evt.Livemode,
	}

	var raw json.RawMessage
	if evt.Data != nil {
		raw = evt.Data.Raw
	}
	decode := func(v any) error {
		if len(raw) == 0 {
			return fmt.Errorf("%w: event %s has no data.object", ErrMalformedEvent, evt.ID)
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return errors.Join(ErrMalformedEvent, fmt.Errorf("event %s: %w", evt.ID, err))
		}
		return nil
	}

	switch evt.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var cs stripe.CheckoutSession
		if err := decode(&cs); err != nil {
			return nil, err
		}
		return checkoutFromStripe(env, &cs), nil

	case stripe.EventTypeCustomerSubscriptionCreated, stripe.EventTypeCustomerSubscriptionUpdated:
		var sub stripe.Subscription
		if err := decode(&sub); err != nil {
			return nil, err
		}
		return &SubscriptionChanged{
			Envelope:     env,
			Creation:     evt.Type == stripe.EventTypeCustomerSubscriptionCreated,
			Subscription: subscriptionFromStripe(&sub),
		}, nil

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := decode(&sub); err != nil {
			return nil, err
		}
		return &SubscriptionDeleted{Envelope: env, Subscription: subscriptionFromStripe(&sub)}, nil

	case stripe.EventTypeInvoicePaymentFailed, stripe.EventTypeInvoicePaymentSucceeded:
		var inv invoiceObject
		if err := decode(&inv); err != nil {
			return nil, err
		}
		return inv.toEvent(env, evt.Type == stripe.EventTypeInvoicePaymentFailed), nil
	}

	return &Unhandled{Envelope: env}, nil
}

func checkoutFromStripe(env Envelope, cs *stripe.CheckoutSession) *CheckoutCompleted {
	out := &CheckoutCompleted{
		Envelope:          env,
		SessionID:         cs.ID,
		Mode:              string(cs.Mode),
		ClientReferenceID: cs.ClientReferenceID,
		CustomerEmail:     cs.CustomerEmail,
		Metadata:          cs.Metadata,
	}
	if cs.Customer != nil {
		out.CustomerID = cs.Customer.ID
	}
	if out.CustomerEmail == "" && cs.CustomerDetails != nil {
		out.CustomerEmail = cs.CustomerDetails.Email
	}
	if cs.Subscription != nil {
		out.SubscriptionID = cs.Subscription.ID
		// An expanded subscription carries its status; a bare id does not.
		if cs.Subscription.Status != "" {
			sub := subscriptionFromStripe(cs.Subscription)
			out.Subscription = &sub
		}
	}
	return out
}

func subscriptionFromStripe(s *stripe.Subscription) Subscription {
	out := Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		TrialEnd:          unixTime(s.TrialEnd),
		CancelAt:          unixTime(s.CancelAt),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		CanceledAt:        unixTime(s.CanceledAt),
		EndedAt:           unixTime(s.EndedAt),
		Metadata:          s.Metadata,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil {
		for _, item := range s.Items.Data {
			if item != nil && item.Price != nil && item.Price.ID != "" {
				out.PriceID = item.Price.ID
				break
			}
		}
	}
	return out
}

// invoiceObject decodes the invoice fields billing needs. The subscription
// reference moved under parent.subscription_details in newer API versions;
// both shapes are accepted.
type invoiceObject struct {
	ID                 string            `json:"id"`
	Customer           expandableID      `json:"customer"`
	CustomerEmail      string            `json:"customer_email"`
	AmountDue          int64             `json:"amount_due"`
	AmountPaid         int64             `json:"amount_paid"`
	Currency           string            `json:"currency"`
	AttemptCount       int64             `json:"attempt_count"`
	NextPaymentAttempt int64             `json:"next_payment_attempt"`
	HostedInvoiceURL   string            `json:"hosted_invoice_url"`
	Metadata           map[string]string `json:"metadata"`
	Subscription       expandableID      `json:"subscription"`
	SubscriptionDetail *struct {
		Metadata map[string]string `json:"metadata"`
	} `json:"subscription_details"`
	Parent *struct {
		SubscriptionDetails *struct {
			Subscription expandableID      `json:"subscription"`
			Metadata     map[string]string `json:"metadata"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (inv invoiceObject) toEvent(env Envelope, failed bool) *InvoicePayment {
	out := &InvoicePayment{
		Envelope:         env,
		Failed:           failed,
		InvoiceID:        inv.ID,
		CustomerID:       string(inv.Customer),
		CustomerEmail:    inv.CustomerEmail,
		SubscriptionID:   string(inv.Subscription),
		AmountDue:        inv.AmountDue,
		AmountPaid:       inv.AmountPaid,
		Currency:         inv.Currency,
		AttemptCount:     inv.AttemptCount,
		NextAttempt:      unixTime(inv.NextPaymentAttempt),
		HostedInvoiceURL: inv.HostedInvoiceURL,
		Metadata:         map[string]string{},
	}
	for k, v := range inv.Metadata {
		out.Metadata[k] = v
	}
	if inv.SubscriptionDetail != nil {
		for k, v := range inv.SubscriptionDetail.Metadata {
			out.Metadata[k] = v
		}
	}
	if inv.Parent != nil && inv.Parent.SubscriptionDetails != nil {
		details := inv.Parent.SubscriptionDetails
		if details.Subscription != "" {
			out.SubscriptionID = string(details.Subscription)
		}
		for k, v := range details.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// expandableID accepts either an id string or an expanded object with an id.
type expandableID string

func (e *expandableID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = ""
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*e = expandableID(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = expandableID(obj.ID)
	return nil
}
