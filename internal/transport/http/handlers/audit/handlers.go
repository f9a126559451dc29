package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/audit"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := shared.ParsePagination(r, 50, 200)

	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    r.URL.Query().Get("actorId"),
	}
	includeDetails := r.URL.Query().Get("details") == "true"

	events, err := h.Service.List(r.Context(), filter, includeDetails, p.Limit, p.Offset)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"events": events, "total": total}, requestID)
}
