package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a shop cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDuplicateTenant is returned by Create when the id or slug is taken.
	ErrDuplicateTenant = errors.New("tenant already exists")

	// ErrIdentifierConflict is returned when an external customer or
	// subscription id already belongs to another shop.
	ErrIdentifierConflict = errors.New("external billing identifier belongs to another tenant")

	// ErrInvalidBillingState is returned for unknown status or plan values.
	ErrInvalidBillingState = errors.New("invalid billing status or plan")

	// ErrStorage wraps unexpected storage failures.
	ErrStorage = errors.New("tenant storage failure")
)
