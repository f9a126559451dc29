package userhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ams/internal/auth"
	"ams/internal/domain/audit"
	"ams/internal/domain/role"
	"ams/internal/domain/user"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

type Handler struct {
	Service *user.Service
	Audit   *audit.Service
}

func NewHandler(service *user.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/hierarchy", h.handleHierarchy)
		r.Get("/{userID}", h.handleGet)
		r.With(middleware.RequireManagement).Get("/{userID}/team", h.handleTeam)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAdmin).Put("/{userID}", h.handleUpdate)
		r.With(middleware.RequireAdmin).Post("/{userID}/deactivate", h.handleDeactivate)
		r.With(middleware.RequireAdmin).Post("/{userID}/reset-password", h.handleResetPassword)
	})
}

type createUserRequest struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Role               string `json:"role"`
	DepartmentID       string `json:"departmentId"`
	HeadquartersID     string `json:"headquartersId"`
	ReportingManagerID string `json:"reportingManagerId"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	filter := user.ListFilter{
		Search:         strings.TrimSpace(r.URL.Query().Get("search")),
		DepartmentID:   r.URL.Query().Get("departmentId"),
		HeadquartersID: r.URL.Query().Get("headquartersId"),
	}
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := role.Parse(raw)
		if err != nil {
			api.FailErr(w, err, requestID)
			return
		}
		filter.Role = parsed
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	users, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, users, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	u, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, u, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	v.Required("fullName", payload.FullName, "fullName is required")
	v.Required("role", payload.Role, "role is required")
	v.Required("headquartersId", payload.HeadquartersID, "headquartersId is required")
	if v.Reject(w, requestID) {
		return
	}

	userRole, err := role.Parse(payload.Role)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_failed", "failed to hash password", requestID)
		return
	}

	u, err := h.Service.Create(r.Context(), user.CreateInput{
		Username:           strings.TrimSpace(payload.Username),
		PasswordHash:       hash,
		Email:              strings.TrimSpace(payload.Email),
		FullName:           strings.TrimSpace(payload.FullName),
		Role:               userRole,
		DepartmentID:       payload.DepartmentID,
		HeadquartersID:     payload.HeadquartersID,
		ReportingManagerID: payload.ReportingManagerID,
	})
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}

	h.record(r, actor.ID, "user.create", u.ID, map[string]string{"username": u.Username, "role": string(u.Role)})
	api.Created(w, u, requestID)
}

type updateUserRequest struct {
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Role               string `json:"role"`
	DepartmentID       string `json:"departmentId"`
	HeadquartersID     string `json:"headquartersId"`
	ReportingManagerID string `json:"reportingManagerId"`
	Active             bool   `json:"isActive"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	userRole, err := role.Parse(payload.Role)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}

	u, err := h.Service.Update(r.Context(), userID, user.UpdateInput{
		Email:              strings.TrimSpace(payload.Email),
		FullName:           strings.TrimSpace(payload.FullName),
		Role:               userRole,
		DepartmentID:       payload.DepartmentID,
		HeadquartersID:     payload.HeadquartersID,
		ReportingManagerID: payload.ReportingManagerID,
		Active:             payload.Active,
	})
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}

	h.record(r, actor.ID, "user.update", u.ID, map[string]string{"role": string(u.Role)})
	api.Success(w, u, requestID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	if err := h.Service.Deactivate(r.Context(), userID); err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "user.deactivate", userID, nil)
	api.Success(w, map[string]string{"id": userID, "status": "deactivated"}, requestID)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Password) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "password is required", requestID)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_failed", "failed to hash password", requestID)
		return
	}
	if err := h.Service.SetPassword(r.Context(), userID, hash); err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "user.reset_password", userID, nil)
	api.Success(w, map[string]string{"id": userID, "status": "password_reset"}, requestID)
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	// Managers may only inspect their own team; admins can inspect any.
	if userID != actor.ID && !actor.Role.IsAdmin() {
		api.Fail(w, http.StatusForbidden, "forbidden", "operation not permitted", requestID)
		return
	}

	team, err := h.Service.Team(r.Context(), userID)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, team, requestID)
}

func (h *Handler) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	nodes, err := h.Service.Hierarchy(r.Context())
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, nodes, requestID)
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "user", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
