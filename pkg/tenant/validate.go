package tenant

import "fmt"

func (u BillingUpdate) validate() error {
	if u.Status != "" && !u.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidBillingState, u.Status)
	}
	if u.Plan != "" && !u.Plan.Valid() {
		return fmt.Errorf("%w: plan %q", ErrInvalidBillingState, u.Plan)
	}
	for _, s := range u.AllowedFrom {
		if !s.Valid() {
			return fmt.Errorf("%w: status %q", ErrInvalidBillingState, s)
		}
	}
	return nil
}
