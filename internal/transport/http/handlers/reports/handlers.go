package reportshandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/reports"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
	"ams/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/statement.pdf", h.handleStatement)
		r.With(middleware.RequireAdmin).Get("/jobs", h.handleJobRuns)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var from, to time.Time
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = shared.ParseDate(raw); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", requestID)
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = shared.ParseDate(raw); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD", requestID)
			return
		}
	}

	dashboard, err := h.Service.Dashboard(r.Context(), actor, from, to)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = actor.ID
	}
	now := time.Now()
	year := now.Year()
	month := now.Month()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be numeric", requestID)
			return
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be 1-12", requestID)
			return
		}
		month = time.Month(parsed)
	}

	pdf, err := h.Service.MonthlyStatement(r.Context(), actor, userID, year, month)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		return
	}
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := shared.ParsePagination(r, 20, 100)

	runs, err := h.Service.JobRuns(r.Context(), r.URL.Query().Get("jobType"), p.Limit, p.Offset)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, runs, requestID)
}
