package middleware

import (
	"context"
	"net/http"
	"strings"

	"ams/internal/auth"
	"ams/internal/domain/access"
	"ams/internal/domain/role"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Auth resolves the bearer token into an actor principal. Requests without
// a valid token pass through unauthenticated; route guards decide whether
// that is acceptable.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			actorRole, err := role.Parse(claims.Role)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor, access.Principal{
				ID:             claims.UserID,
				Role:           actorRole,
				HeadquartersID: claims.HeadquartersID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (access.Principal, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(access.Principal)
	return actor, ok
}
