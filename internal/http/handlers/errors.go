package handlers

import (
	"errors"
	"net/http"

	"fundme/internal/domain"
	"fundme/internal/middleware"
)

// ledgerError maps ledger failures onto HTTP responses. Causes outside the
// ledger taxonomy are logged and reported as internal errors.
func (a *App) ledgerError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		code    string
		message string
	)
	switch {
	case errors.Is(err, domain.ErrInsufficientContribution):
		status, code, message = http.StatusUnprocessableEntity, "insufficient_contribution", "You need to spend more ETH!"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, message = http.StatusForbidden, "unauthorized", "only the owner may withdraw"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		status, code, message = http.StatusNotFound, "index_out_of_range", "no funder at that index"
	case errors.Is(err, domain.ErrTransferFailed):
		status, code, message = http.StatusBadGateway, "transfer_failed", "Call failed"
	case errors.Is(err, domain.ErrInsufficientBalance):
		status, code, message = http.StatusUnprocessableEntity, "insufficient_balance", "sender balance too low"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidAddress):
		status, code, message = http.StatusBadRequest, "bad_request", err.Error()
	default:
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("ledger call failed")
		a.error(w, http.StatusInternalServerError, "internal", "ledger call failed")
		return
	}
	if a.Metrics != nil {
		a.Metrics.ObserveRejection(code)
	}
	a.error(w, status, code, message)
}
