package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"ams/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"requestId", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", GetRequestID(r.Context()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
