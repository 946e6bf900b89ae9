package billing

import "time"

// Kind is the billing-relevant category of a provider event.
type Kind string

const (
	KindCheckoutCompleted   Kind = "checkout.session.completed"
	KindSubscriptionCreated Kind = "customer.subscription.created"
	KindSubscriptionUpdated Kind = "customer.subscription.updated"
	KindSubscriptionDeleted Kind = "customer.subscription.deleted"
	KindPaymentFailed       Kind = "invoice.payment_failed"
	KindPaymentSucceeded    Kind = "invoice.payment_succeeded"
	KindUnhandled           Kind = "unhandled"
)

// Envelope carries the provider metadata every event has.
type Envelope struct {
	ID       string
	Type     string
	Created  time.Time
	Livemode bool
}

// Meta returns the envelope itself; it is promoted to every event type.
func (e Envelope) Meta() Envelope { return e }

// Event is a verified, decoded provider event. The concrete type is one of
// *CheckoutCompleted, *SubscriptionChanged, *SubscriptionDeleted,
// *InvoicePayment or *Unhandled.
type Event interface {
	Meta() Envelope
	Kind() Kind
	event()
}

// Subscription is the provider subscription state an event refers to.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            string
	PriceID           string
	TrialEnd          *time.Time
	CancelAt          *time.Time
	CancelAtPeriodEnd bool
	CanceledAt        *time.Time
	EndedAt           *time.Time
	Metadata          map[string]string
}

// CheckoutCompleted is a finished checkout session. Subscription is nil for
// one-off payments and may be filled in later by a SubscriptionFetcher when
// the session only referenced the subscription by id.
type CheckoutCompleted struct {
	Envelope
	SessionID         string
	Mode              string
	ClientReferenceID string
	CustomerID        string
	CustomerEmail     string
	SubscriptionID    string
	Metadata          map[string]string
	Subscription      *Subscription
}

func (*CheckoutCompleted) Kind() Kind { return KindCheckoutCompleted }
func (*CheckoutCompleted) event() {}

// SubscriptionChanged is a created or updated subscription.
type SubscriptionChanged struct {
	Envelope
	// Creation is true for customer.subscription.created.
	Creation     bool
	Subscription Subscription
}

func (e *SubscriptionChanged) Kind() Kind {
	if e.Creation {
		return KindSubscriptionCreated
	}
	return KindSubscriptionUpdated
}
func (*SubscriptionChanged) event() {}

// SubscriptionDeleted is a subscription that has ended for good.
type SubscriptionDeleted struct {
	Envelope
	Subscription Subscription
}

func (*SubscriptionDeleted) Kind() Kind { return KindSubscriptionDeleted }
func (*SubscriptionDeleted) event() {}

// InvoicePayment is a failed or successful invoice payment attempt.
type InvoicePayment struct {
	Envelope
	Failed           bool
	InvoiceID        string
	CustomerID       string
	CustomerEmail    string
	SubscriptionID   string
	AmountDue        int64
	AmountPaid       int64
	Currency         string
	AttemptCount     int64
	NextAttempt      *time.Time
	HostedInvoiceURL string
	Metadata         map[string]string
}

func (e *InvoicePayment) Kind() Kind {
	if e.Failed {
		return KindPaymentFailed
	}
	return KindPaymentSucceeded
}
func (*InvoicePayment) event() {}

// Unhandled is any verified event type the billing flow ignores.
type Unhandled struct {
	Envelope
}

func (*Unhandled) Kind() Kind { return KindUnhandled }
func (*Unhandled) event() {}

// ExternalIDs returns the provider customer and subscription ids an event
// refers to, if any.
func ExternalIDs(evt Event) (customerID, subscriptionID string) {
	switch e := evt.(type) {
	case *CheckoutCompleted:
		return e.CustomerID, e.SubscriptionID
	case *SubscriptionChanged:
		return e.Subscription.CustomerID, e.Subscription.ID
	case *SubscriptionDeleted:
		return e.Subscription.CustomerID, e.Subscription.ID
	case *InvoicePayment:
		return e.CustomerID, e.SubscriptionID
	}
	return "", ""
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
