package templates

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// BillingData is the view model shared by the billing emails.
type BillingData struct {
	AppName      string
	ShopName     string
	Plan         string
	SupportEmail string
	BillingURL   string

	AmountMinor int64
	Currency    string
	InvoiceURL  string
	NextAttempt *time.Time

	// EffectiveAt is when a cancellation takes or took effect.
	EffectiveAt time.Time
}

// PlanName renders a plan code such as "PRO" as "Pro".
func PlanName(code string) string {
	if code == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(code, "_", " ")))
}

// Amount formats a minor-unit amount with its ISO currency code, e.g. "USD 29.00".
func Amount(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", float64(minor)/100, strings.ToUpper(code))
	}
	scale, _ := currency.Standard.Rounding(unit)
	value := float64(minor)
	for range scale {
		value /= 10
	}
	return fmt.Sprintf("%s %.*f", unit, scale, value)
}

// amountSuffix is " of USD 29.00" when the amount is known, empty otherwise.
func amountSuffix(data BillingData) string {
	if data.AmountMinor == 0 {
		return ""
	}
	return " of " + Amount(data.AmountMinor, data.Currency)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}

// DunningSubject is the subject line of the failed payment email.
func DunningSubject(data BillingData) string {
	return fmt.Sprintf("Action needed: payment failed for %s", data.ShopName)
}

// ReceiptSubject is the subject line of the payment receipt email.
func ReceiptSubject(data BillingData) string {
	return fmt.Sprintf("Payment received for %s", data.ShopName)
}

// CancellationSubject is the subject line of the cancellation email.
func CancellationSubject(data BillingData) string {
	return fmt.Sprintf("Your %s subscription was cancelled", data.AppName)
}
