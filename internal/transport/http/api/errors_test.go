package api

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"ams/internal/domain/allowance"
	"ams/internal/domain/user"
)

func TestFailErrMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", allowance.ErrNotFound, 404, "not_found"},
		{"forbidden", user.ErrForbidden, 403, "forbidden"},
		{"invalid state", allowance.ErrInvalidState, 409, "invalid_state"},
		{"duplicate day", allowance.ErrDuplicateDay, 409, "duplicate_allowance"},
		{"wrapped duplicate day", errors.Join(allowance.ErrDuplicateDay), 409, "duplicate_allowance"},
		{"rate missing", allowance.ErrRateNotConfigured, 422, "rate_not_configured"},
		{"unknown", errors.New("boom"), 500, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FailErr(rec, tc.err, "req-1")
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var env Envelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.Success || env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("envelope = %+v, want error code %q", env, tc.code)
			}
		})
	}
}
