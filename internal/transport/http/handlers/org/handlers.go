package orghandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/audit"
	"ams/internal/domain/org"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

type Handler struct {
	Service *org.Service
	Audit   *audit.Service
}

func NewHandler(service *org.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/headquarters", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListHeadquarters)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateHeadquarters)
	})
	r.Route("/departments", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListDepartments)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateDepartment)
	})
}

func (h *Handler) handleListHeadquarters(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	out, err := h.Service.ListHeadquarters(r.Context())
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleCreateHeadquarters(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload org.HeadquartersInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	hq, err := h.Service.CreateHeadquarters(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "headquarters.create", hq.ID)
	api.Created(w, hq, requestID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	out, err := h.Service.ListDepartments(r.Context(), r.URL.Query().Get("headquartersId"))
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload org.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	dept, err := h.Service.CreateDepartment(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "department.create", dept.ID)
	api.Created(w, dept, requestID)
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "org", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
