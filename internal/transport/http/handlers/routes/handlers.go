package routehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/audit"
	"ams/internal/domain/route"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

// Route configuration is reference data maintained by administrators; users
// can only read their own routes.
type Handler struct {
	Service *route.Service
	Audit   *audit.Service
}

func NewHandler(service *route.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users/{userID}/travel-routes", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListForUser)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAdmin).Put("/bulk", h.handleBulkReplace)
	})
	r.Route("/travel-routes", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)
		r.Put("/{routeID}", h.handleUpdate)
		r.Delete("/{routeID}", h.handleDelete)
	})
}

func (h *Handler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	if userID != actor.ID && !actor.Role.IsAdmin() {
		api.Fail(w, http.StatusForbidden, "forbidden", "operation not permitted", requestID)
		return
	}

	routes, err := h.Service.ListForUser(r.Context(), userID)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, routes, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload route.RouteInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	created, err := h.Service.Create(r.Context(), userID, payload)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "route.create", created.ID, payload)
	api.Created(w, created, requestID)
}

type updateRouteRequest struct {
	route.RouteInput
	Active bool `json:"isActive"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	routeID := chi.URLParam(r, "routeID")

	var payload updateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	updated, err := h.Service.Update(r.Context(), routeID, payload.RouteInput, payload.Active)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "route.update", routeID, payload)
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	routeID := chi.URLParam(r, "routeID")

	if err := h.Service.Delete(r.Context(), routeID); err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "route.delete", routeID, nil)
	api.Success(w, map[string]string{"id": routeID, "status": "deleted"}, requestID)
}

type bulkRoutesRequest struct {
	Routes []route.RouteInput `json:"routes"`
}

func (h *Handler) handleBulkReplace(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload bulkRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	routes, err := h.Service.BulkReplace(r.Context(), userID, payload.Routes)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "route.bulk_replace", userID, map[string]any{"count": len(routes)})
	api.Success(w, routes, requestID)
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "travel_route", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
