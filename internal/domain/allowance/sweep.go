package allowance

import (
	"context"
	"log/slog"
	"time"

	"ams/internal/domain/role"
)

// RunDailySweep creates the pre-approved end-of-day daily allowance for
// every eligible user who has no daily record for the given date. Each
// candidate is handled independently so one failure never aborts the run.
func (s *Service) RunDailySweep(ctx context.Context, sweepDate time.Time) (SweepSummary, error) {
	date := dateOnly(sweepDate)
	candidates, err := s.Store.SweepCandidates(ctx, date)
	if err != nil {
		return SweepSummary{}, err
	}
	summary := SweepSummary{Date: date, Candidates: len(candidates)}
	for _, c := range candidates {
		r, err := role.Parse(c.Role)
		if err != nil {
			slog.Warn("sweep skipped user: unknown role", "userId", c.UserID, "role", c.Role)
			summary.SkippedNoRate++
			continue
		}
		amount, ok, err := s.Rates.DailyRateForRole(ctx, r)
		if err != nil {
			slog.Warn("sweep skipped user: rate lookup failed", "userId", c.UserID, "err", err)
			summary.SkippedNoRate++
			continue
		}
		if !ok {
			slog.Warn("sweep skipped user: no rate for role", "userId", c.UserID, "role", c.Role)
			summary.SkippedNoRate++
			continue
		}
		d := &DailyAllowance{
			UserID:  c.UserID,
			Date:    date,
			Amount:  amount,
			Status:  StatusApproved,
			Source:  SourceScheduler,
			Remarks: "Auto-generated daily allowance",
		}
		if _, err := s.Store.InsertDaily(ctx, d); err != nil {
			slog.Warn("sweep insert failed", "userId", c.UserID, "err", err)
			continue
		}
		summary.Created++
	}
	slog.Info("daily sweep finished",
		"date", date.Format("2006-01-02"),
		"candidates", summary.Candidates,
		"created", summary.Created,
		"skipped", summary.SkippedNoRate)
	return summary, nil
}
