package rateshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/audit"
	"ams/internal/domain/rates"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

type Handler struct {
	Service *rates.Service
	Audit   *audit.Service
}

func NewHandler(service *rates.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rates", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/roles", h.handleListRoleRates)
		r.With(middleware.RequireAdmin).Put("/roles", h.handleSetRoleRate)
		r.Get("/stations", h.handleListStationMultipliers)
		r.With(middleware.RequireAdmin).Put("/stations", h.handleSetStationMultiplier)
	})
}

func (h *Handler) handleListRoleRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	out, err := h.Service.ListRoleRates(r.Context())
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, out, requestID)
}

type roleRateRequest struct {
	Role        string  `json:"role"`
	DailyAmount float64 `json:"dailyAmount"`
}

func (h *Handler) handleSetRoleRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload roleRateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	rate, err := h.Service.SetRoleRate(r.Context(), strings.ToUpper(strings.TrimSpace(payload.Role)), payload.DailyAmount)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "rates.role.set", rate.Role, map[string]any{"dailyAmount": rate.DailyAmount})
	api.Success(w, rate, requestID)
}

func (h *Handler) handleListStationMultipliers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	out, err := h.Service.ListStationMultipliers(r.Context())
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, out, requestID)
}

type stationMultiplierRequest struct {
	StationType string  `json:"stationType"`
	Multiplier  float64 `json:"multiplier"`
}

func (h *Handler) handleSetStationMultiplier(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload stationMultiplierRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	station := rates.StationType(strings.ToUpper(strings.TrimSpace(payload.StationType)))
	m, err := h.Service.SetStationMultiplier(r.Context(), station, payload.Multiplier)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "rates.station.set", string(m.StationType), map[string]any{"multiplier": m.Multiplier})
	api.Success(w, m, requestID)
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "rates", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
