package middleware

import (
	"net/http"

	"ams/internal/domain/access"
	"ams/internal/domain/role"
	"ams/internal/transport/http/api"
)

// RequireAuth rejects unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return requireActor(func(access.Principal) bool { return true })(next)
}

// RequireAtLeast rejects actors below the given role rank.
func RequireAtLeast(threshold role.Role) func(http.Handler) http.Handler {
	return requireActor(func(actor access.Principal) bool {
		return actor.Role.IsAtLeast(threshold)
	})
}

// RequireManagement admits team leads and above.
func RequireManagement(next http.Handler) http.Handler {
	return requireActor(func(actor access.Principal) bool {
		return actor.Role.IsManagement()
	})(next)
}

// RequireAdmin admits admins and super admins only.
func RequireAdmin(next http.Handler) http.Handler {
	return requireActor(func(actor access.Principal) bool {
		return actor.Role.IsAdmin()
	})(next)
}

func requireActor(allowed func(access.Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !allowed(actor) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
