package allowance

import "errors"

var (
	ErrNotFound           = errors.New("allowance not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("allowance is not pending")
	ErrInvalidDecision    = errors.New("decision must be APPROVED or REJECTED")
	ErrDuplicateDay       = errors.New("a daily allowance already exists for this date")
	ErrRateNotConfigured  = errors.New("daily allowance rate not configured for role")
	ErrRouteNotConfigured = errors.New("travel route not configured for user")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
