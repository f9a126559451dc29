package api

import (
	"errors"
	"net/http"

	"ams/internal/domain/allowance"
	"ams/internal/domain/org"
	"ams/internal/domain/rates"
	"ams/internal/domain/reports"
	"ams/internal/domain/role"
	"ams/internal/domain/route"
	"ams/internal/domain/user"
)

// FailErr maps domain errors onto HTTP responses so handler packages never
// duplicate the taxonomy.
func FailErr(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, allowance.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, route.ErrNotFound),
		errors.Is(err, org.ErrNotFound):
		Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, allowance.ErrForbidden),
		errors.Is(err, user.ErrForbidden),
		errors.Is(err, reports.ErrForbidden):
		Fail(w, http.StatusForbidden, "forbidden", "operation not permitted", requestID)
	case errors.Is(err, allowance.ErrInvalidState):
		Fail(w, http.StatusConflict, "invalid_state", "allowance is not pending", requestID)
	case errors.Is(err, allowance.ErrDuplicateDay):
		Fail(w, http.StatusConflict, "duplicate_allowance", "a daily allowance already exists for this date", requestID)
	case errors.Is(err, allowance.ErrRateNotConfigured):
		Fail(w, http.StatusUnprocessableEntity, "rate_not_configured", "no daily rate configured for role", requestID)
	case errors.Is(err, allowance.ErrRouteNotConfigured):
		Fail(w, http.StatusUnprocessableEntity, "route_not_configured", "no travel route configured for user", requestID)
	case errors.Is(err, allowance.ErrInvalidDecision):
		Fail(w, http.StatusBadRequest, "invalid_decision", "decision must be APPROVED or REJECTED", requestID)
	case errors.Is(err, role.ErrInvalidRole):
		Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", requestID)
	case errors.Is(err, user.ErrUsernameTaken):
		Fail(w, http.StatusConflict, "username_taken", "username already in use", requestID)
	case errors.Is(err, user.ErrSelfManager),
		errors.Is(err, user.ErrInvalidPairing),
		errors.Is(err, user.ErrManagerInactive):
		Fail(w, http.StatusBadRequest, "invalid_manager", err.Error(), requestID)
	case errors.Is(err, rates.ErrUnknownStationType):
		Fail(w, http.StatusBadRequest, "unknown_station_type", "unknown station type", requestID)
	case errors.Is(err, rates.ErrInvalidAmount):
		Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be positive", requestID)
	case errors.Is(err, route.ErrRouteExists):
		Fail(w, http.StatusConflict, "route_exists", "route already configured", requestID)
	case errors.Is(err, route.ErrInvalidRoute),
		errors.Is(err, route.ErrEmptyRouteSet),
		errors.Is(err, org.ErrInvalidInput):
		Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, allowance.ErrStorageUnavailable):
		Fail(w, http.StatusServiceUnavailable, "storage_unavailable", "storage unavailable", requestID)
	default:
		Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
