package binder

import "errors"

// Common binding errors
var (
	ErrFailedToParsePath   = errors.New("failed to parse path parameters")
	ErrFailedToParseHeader = errors.New("failed to parse request headers")
	ErrFailedToReadBody    = errors.New("failed to read request body")
	ErrBodyTooLarge        = errors.New("request body too large")
	ErrMissingValue        = errors.New("missing required value")
	ErrInvalidTarget       = errors.New("binding target must be a non-nil pointer to struct")
)
