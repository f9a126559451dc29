package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ams/internal/domain/allowance"
	"ams/internal/platform/config"
)

const JobDailySweep = "daily_sweep"

// Service owns the background scheduler. The allowance service provides the
// actual sweep; this layer adds timing and job_runs bookkeeping.
type Service struct {
	DB         *pgxpool.Pool
	Cfg        config.Config
	Allowances *allowance.Service
}

func New(db *pgxpool.Pool, cfg config.Config, allowances *allowance.Service) *Service {
	return &Service{DB: db, Cfg: cfg, Allowances: allowances}
}

// Start launches the end-of-day sweep loop. It fires once per day at the
// configured hour and stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	if !s.Cfg.SweepEnabled {
		slog.Info("daily sweep scheduler disabled")
		return
	}
	go s.sweepLoop(ctx)
}

func (s *Service) sweepLoop(ctx context.Context) {
	for {
		next := nextRun(time.Now(), s.Cfg.SweepHour)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.RunNow(ctx, JobDailySweep, func(ctx context.Context) (any, error) {
			return s.Allowances.RunDailySweep(ctx, time.Now())
		}); err != nil {
			slog.Warn("scheduled daily sweep failed", "err", err)
		}
	}
}

// nextRun returns the next occurrence of hour o'clock, local time. A run
// exactly at the boundary schedules the following day.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunNow executes a job immediately and records the run.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, jobType, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}
