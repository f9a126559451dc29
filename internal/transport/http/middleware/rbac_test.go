package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ams/internal/domain/access"
	"ams/internal/domain/role"
)

func actorRequest(r role.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ctxKeyActor, access.Principal{ID: "u1", Role: r, HeadquartersID: "hq1"})
	return req.WithContext(ctx)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, actorRequest(role.Trainee))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authenticated request status = %d, want 204", rec.Code)
	}
}

func TestRequireManagement(t *testing.T) {
	handler := RequireManagement(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		r    role.Role
		want int
	}{
		{role.Trainee, http.StatusForbidden},
		{role.Junior, http.StatusForbidden},
		{role.Senior, http.StatusForbidden},
		{role.TeamLead, http.StatusNoContent},
		{role.DepartmentHead, http.StatusNoContent},
		{role.Admin, http.StatusNoContent},
		{role.SuperAdmin, http.StatusNoContent},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, actorRequest(c.r))
		if rec.Code != c.want {
			t.Errorf("role %s status = %d, want %d", c.r, rec.Code, c.want)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, actorRequest(role.DepartmentHead))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("department head status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, actorRequest(role.Admin))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin status = %d, want 204", rec.Code)
	}
}

func TestRequireAtLeast(t *testing.T) {
	handler := RequireAtLeast(role.Senior)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, actorRequest(role.Junior))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("junior status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, actorRequest(role.Senior))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("senior status = %d, want 204", rec.Code)
	}
}
