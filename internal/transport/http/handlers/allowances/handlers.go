package allowancehandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/allowance"
	"ams/internal/domain/audit"
	"ams/internal/domain/rates"
	"ams/internal/platform/jobs"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

type Handler struct {
	Service *allowance.Service
	Audit   *audit.Service
	Jobs    *jobs.Service
}

func NewHandler(service *allowance.Service, auditSvc *audit.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/allowances", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)

		r.Post("/daily", h.handleSubmitDaily)
		r.Get("/daily/{allowanceID}", h.handleGetDaily)
		r.Put("/daily/{allowanceID}", h.handleUpdateDaily)
		r.Delete("/daily/{allowanceID}", h.handleDeleteDaily)
		r.With(middleware.RequireManagement).Post("/daily/{allowanceID}/decision", h.handleDecideDaily)

		r.Post("/travel", h.handleSubmitTravel)
		r.Get("/travel/{allowanceID}", h.handleGetTravel)
		r.Put("/travel/{allowanceID}", h.handleUpdateTravel)
		r.Delete("/travel/{allowanceID}", h.handleDeleteTravel)
		r.With(middleware.RequireManagement).Post("/travel/{allowanceID}/decision", h.handleDecideTravel)

		r.With(middleware.RequireAdmin).Post("/sweep/run", h.handleRunSweep)
	})
}

type dailyRequest struct {
	Date    string `json:"date"`
	Remarks string `json:"remarks"`
}

func (h *Handler) parseDaily(w http.ResponseWriter, r *http.Request) (allowance.DailySubmission, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload dailyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return allowance.DailySubmission{}, false
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", requestID)
		return allowance.DailySubmission{}, false
	}
	return allowance.DailySubmission{Date: date, Remarks: strings.TrimSpace(payload.Remarks)}, true
}

func (h *Handler) handleSubmitDaily(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	in, ok := h.parseDaily(w, r)
	if !ok {
		return
	}
	d, err := h.Service.SubmitDaily(r.Context(), actor, in)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.daily.submit", d.ID, map[string]any{"date": d.Date.Format("2006-01-02"), "amount": d.Amount})
	api.Created(w, d, requestID)
}

func (h *Handler) handleGetDaily(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	d, err := h.Service.GetDaily(r.Context(), actor, chi.URLParam(r, "allowanceID"))
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, d, requestID)
}

func (h *Handler) handleUpdateDaily(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	in, ok := h.parseDaily(w, r)
	if !ok {
		return
	}
	d, err := h.Service.UpdateDaily(r.Context(), actor, chi.URLParam(r, "allowanceID"), in)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.daily.update", d.ID, nil)
	api.Success(w, d, requestID)
}

func (h *Handler) handleDeleteDaily(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	id := chi.URLParam(r, "allowanceID")

	if err := h.Service.DeleteDaily(r.Context(), actor, id); err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.daily.delete", id, nil)
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, requestID)
}

type travelRequest struct {
	Date        string `json:"date"`
	FromCity    string `json:"fromCity"`
	ToCity      string `json:"toCity"`
	TravelMode  string `json:"travelMode"`
	StationType string `json:"stationType"`
	Remarks     string `json:"remarks"`
}

func (h *Handler) parseTravel(w http.ResponseWriter, r *http.Request) (allowance.TravelSubmission, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload travelRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return allowance.TravelSubmission{}, false
	}

	v := shared.NewValidator()
	v.Required("fromCity", payload.FromCity, "fromCity is required")
	v.Required("toCity", payload.ToCity, "toCity is required")
	v.Enum("stationType", payload.StationType,
		[]string{string(rates.StationNormal), string(rates.StationOutstation), string(rates.StationExStation)},
		"stationType must be NORMAL, OUTSTATION or EX_STATION")
	if v.Reject(w, requestID) {
		return allowance.TravelSubmission{}, false
	}

	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", requestID)
		return allowance.TravelSubmission{}, false
	}
	return allowance.TravelSubmission{
		Date:        date,
		FromCity:    strings.TrimSpace(payload.FromCity),
		ToCity:      strings.TrimSpace(payload.ToCity),
		TravelMode:  strings.TrimSpace(payload.TravelMode),
		StationType: rates.StationType(strings.ToUpper(strings.TrimSpace(payload.StationType))),
		Remarks:     strings.TrimSpace(payload.Remarks),
	}, true
}

func (h *Handler) handleSubmitTravel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	in, ok := h.parseTravel(w, r)
	if !ok {
		return
	}
	t, err := h.Service.SubmitTravel(r.Context(), actor, in)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.travel.submit", t.ID, map[string]any{
		"fromCity": t.FromCity, "toCity": t.ToCity, "amount": t.Amount,
	})
	api.Created(w, t, requestID)
}

func (h *Handler) handleGetTravel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	t, err := h.Service.GetTravel(r.Context(), actor, chi.URLParam(r, "allowanceID"))
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, t, requestID)
}

func (h *Handler) handleUpdateTravel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	in, ok := h.parseTravel(w, r)
	if !ok {
		return
	}
	t, err := h.Service.UpdateTravel(r.Context(), actor, chi.URLParam(r, "allowanceID"), in)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.travel.update", t.ID, nil)
	api.Success(w, t, requestID)
}

func (h *Handler) handleDeleteTravel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	id := chi.URLParam(r, "allowanceID")

	if err := h.Service.DeleteTravel(r.Context(), actor, id); err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.travel.delete", id, nil)
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, requestID)
}

type decisionRequest struct {
	Decision string `json:"decision"`
	Remarks  string `json:"remarks"`
}

func (h *Handler) handleDecideDaily(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, allowance.KindDaily)
}

func (h *Handler) handleDecideTravel(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, allowance.KindTravel)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, kind allowance.Kind) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())
	id := chi.URLParam(r, "allowanceID")

	var payload decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	decision := allowance.Status(strings.ToUpper(strings.TrimSpace(payload.Decision)))

	if err := h.Service.Decide(r.Context(), actor, kind, id, decision); err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	h.record(r, actor.ID, "allowance.decision", id, map[string]any{"kind": string(kind), "decision": string(decision)})
	api.Success(w, map[string]string{"id": id, "status": string(decision)}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	filter := allowance.Filter{
		Kind:   allowance.Kind(strings.ToUpper(r.URL.Query().Get("kind"))),
		Status: allowance.Status(strings.ToUpper(r.URL.Query().Get("status"))),
		UserID: r.URL.Query().Get("userId"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", requestID)
			return
		}
		filter.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD", requestID)
			return
		}
		filter.To = to
	}

	out, err := h.Service.ListVisible(r.Context(), actor, filter)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", requestID)
			return
		}
		date = parsed
	}

	result, err := h.Jobs.RunNow(r.Context(), jobs.JobDailySweep, func(ctx context.Context) (any, error) {
		return h.Service.RunDailySweep(ctx, date)
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sweep_failed", "daily sweep failed", requestID)
		return
	}
	h.record(r, actor.ID, "allowance.sweep.run", date.Format("2006-01-02"), result)
	api.Success(w, result, requestID)
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "allowance", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
