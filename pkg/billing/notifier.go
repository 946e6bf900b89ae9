package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/fixology/platform/pkg/email"
	"github.com/fixology/platform/pkg/email/templates"
	"github.com/fixology/platform/pkg/logger"
	"github.com/fixology/platform/pkg/tenant"
)

// DefaultNotifyTimeout bounds a single notification send.
const DefaultNotifyTimeout = 5 * time.Second

// Notification is an applied event together with the shop it changed.
type Notification struct {
	Event  Event
	Tenant tenant.Tenant
}

// Notifier sends the email that goes with an event. It never fails the
// caller: errors are handled inside.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier sends nothing.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}

// EmailNotifier sends dunning, receipt and cancellation emails.
type EmailNotifier struct {
	sender       email.EmailSender
	log          *slog.Logger
	timeout      time.Duration
	appName      string
	supportEmail string
	billingURL   string
}

// NotifierOption configures an EmailNotifier.
type NotifierOption func(*EmailNotifier)

func WithNotifyTimeout(d time.Duration) NotifierOption {
	return func(n *EmailNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

func WithNotifierLogger(log *slog.Logger) NotifierOption {
	return func(n *EmailNotifier) {
		if log != nil {
			n.log = log
		}
	}
}

// WithBranding sets the product name and support address shown in emails.
func WithBranding(appName, supportEmail string) NotifierOption {
	return func(n *EmailNotifier) {
		n.appName = appName
		n.supportEmail = supportEmail
	}
}

// WithBillingURL sets the link to the shop's billing page.
func WithBillingURL(url string) NotifierOption {
	return func(n *EmailNotifier) { n.billingURL = url }
}

// NewEmailNotifier creates a notifier delivering through sender.
func NewEmailNotifier(sender email.EmailSender, opts ...NotifierOption) *EmailNotifier {
	if sender == nil {
		panic("billing: nil email sender")
	}
	n := &EmailNotifier{
		sender:  sender,
		log:     logger.Discard(),
		timeout: DefaultNotifyTimeout,
		appName: "Fixology",
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *EmailNotifier) Notify(ctx context.Context, note Notification) {
	params, ok, err := n.message(ctx, note)
	if !ok {
		return
	}
	if err == nil {
		err = n.send(ctx, params)
	}

	meta := note.Event.Meta()
	if err != nil {
		n.log.ErrorContext(ctx, "billing notification failed",
			logger.TenantID(note.Tenant.ID),
			logger.EventID(meta.ID),
			logger.EventType(meta.Type),
			logger.Error(errors.Join(ErrNotification, err)),
		)
		return
	}
	n.log.InfoContext(ctx, "billing notification sent",
		logger.TenantID(note.Tenant.ID),
		logger.EventID(meta.ID),
		logger.EventType(meta.Type),
		slog.String("tag", params.Tag),
	)
}

func (n *EmailNotifier) send(ctx context.Context, params email.SendEmailParams) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.sender.SendEmail(ctx, params)
}

// message builds the email for an event. ok is false for event kinds that
// have no email.
func (n *EmailNotifier) message(ctx context.Context, note Notification) (email.SendEmailParams, bool, error) {
	data := templates.BillingData{
		AppName:      n.appName,
		ShopName:     note.Tenant.Name,
		Plan:         string(note.Tenant.Plan),
		SupportEmail: n.supportEmail,
		BillingURL:   n.billingURL,
	}
	to := note.Tenant.Email

	var (
		component templ.Component
		subject   string
		tag       string
	)
	switch e := note.Event.(type) {
	case *InvoicePayment:
		data.AmountMinor = e.AmountDue
		data.Currency = e.Currency
		data.InvoiceURL = e.HostedInvoiceURL
		if to == "" {
			to = e.CustomerEmail
		}
		if e.Failed {
			data.NextAttempt = e.NextAttempt
			component, subject, tag = templates.Dunning(data), templates.DunningSubject(data), "billing-dunning"
		} else {
			data.AmountMinor = e.AmountPaid
			component, subject, tag = templates.Receipt(data), templates.ReceiptSubject(data), "billing-receipt"
		}
	case *SubscriptionDeleted:
		data.EffectiveAt = CancellationEffective(e)
		component, subject, tag = templates.Cancellation(data), templates.CancellationSubject(data), "billing-cancellation"
	default:
		return email.SendEmailParams{}, false, nil
	}

	if strings.TrimSpace(to) == "" {
		return email.SendEmailParams{}, true, fmt.Errorf("no recipient for tenant %s", note.Tenant.ID)
	}
	body, err := templates.Render(ctx, component)
	if err != nil {
		return email.SendEmailParams{}, true, fmt.Errorf("render %s: %w", tag, err)
	}
	return email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: body,
		Tag:      tag,
	}, true, nil
}

// CancellationEffective is when a deleted subscription stops: the scheduled
// cancel_at for period-end cancellations, otherwise when it ended or was
// cancelled, falling back to the event time.
func CancellationEffective(e *SubscriptionDeleted) time.Time {
	sub := e.Subscription
	switch {
	case sub.CancelAtPeriodEnd && sub.CancelAt != nil:
		return *sub.CancelAt
	case sub.EndedAt != nil:
		return *sub.EndedAt
	case sub.CanceledAt != nil:
		return *sub.CanceledAt
	}
	return e.Created
}
