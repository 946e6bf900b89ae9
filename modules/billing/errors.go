package billing

import (
	"net/http"

	"github.com/fixology/platform/handler"
)

var (
	ErrInvalidSignature = handler.NewHTTPError(http.StatusBadRequest, "invalid_signature")
	ErrMalformedPayload = handler.NewHTTPError(http.StatusBadRequest, "malformed_event")
)
