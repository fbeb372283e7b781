package response

import (
	"errors"
	"net/http"

	"github.com/gadgetproof/receipt-engine/internal/engine"
)

// EngineStatus maps the engine's sentinel errors onto HTTP status codes.
// Unknown errors map to 500.
func EngineStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrReceiptNotFound),
		errors.Is(err, engine.ErrNoActiveSubscription):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrSystemPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrQuotaExceeded),
		errors.Is(err, engine.ErrSubscriptionInactive),
		errors.Is(err, engine.ErrAlreadyRecycled):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidPayment),
		errors.Is(err, engine.ErrInvalidDuration),
		errors.Is(err, engine.ErrInvalidStatus),
		errors.Is(err, engine.ErrEmptyContentRef),
		errors.Is(err, engine.ErrInvalidIdentity),
		errors.Is(err, engine.ErrUnknownTier):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// EngineError renders an engine failure: sentinel errors keep their message,
// anything else becomes the fallback text.
func EngineError(err error, fallback string) (int, ErrorResponse) {
	status := EngineStatus(err)
	if status == http.StatusInternalServerError {
		return status, Error(fallback)
	}
	return status, Error(err.Error())
}
