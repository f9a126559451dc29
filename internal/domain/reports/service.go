package reports

import (
	"context"
	"errors"
	"time"

	"ams/internal/domain/access"
)

var ErrForbidden = errors.New("operation not permitted")

// PrincipalStore resolves statement subjects for the visibility check.
type PrincipalStore interface {
	Principal(ctx context.Context, userID string) (access.Principal, error)
}

type Service struct {
	Store *Store
	Users PrincipalStore
	Clock func() time.Time
}

func NewService(store *Store, users PrincipalStore) *Service {
	return &Service{Store: store, Users: users, Clock: time.Now}
}

// Dashboard builds the approval and spend overview for the actor's scope.
// A zero range defaults to the current calendar month.
func (s *Service) Dashboard(ctx context.Context, actor access.Principal, from, to time.Time) (*Dashboard, error) {
	if from.IsZero() || to.IsZero() {
		now := s.Clock()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	}
	scope := access.VisibilityFor(actor)

	d := &Dashboard{From: from, To: to}
	var err error
	if d.ApprovedDaily, err = s.Store.ApprovedDailyTotal(ctx, scope, from, to); err != nil {
		return nil, err
	}
	if d.ApprovedTravel, err = s.Store.ApprovedTravelTotal(ctx, scope, from, to); err != nil {
		return nil, err
	}
	if d.PendingDaily, err = s.Store.PendingCount(ctx, scope, "daily_allowances"); err != nil {
		return nil, err
	}
	if d.PendingTravel, err = s.Store.PendingCount(ctx, scope, "travel_allowances"); err != nil {
		return nil, err
	}
	if d.SpendByRole, err = s.Store.SpendByRole(ctx, scope, from, to); err != nil {
		return nil, err
	}
	if d.TopRoutes, err = s.Store.TopRoutes(ctx, scope, from, to, 5); err != nil {
		return nil, err
	}
	if actor.Role.IsManagement() && !actor.Role.IsAdmin() {
		if d.TeamPerformance, err = s.Store.TeamPerformance(ctx, actor.ID, from, to); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MonthlyStatement renders a user's allowance statement as a PDF. The actor
// must be allowed to view the subject.
func (s *Service) MonthlyStatement(ctx context.Context, actor access.Principal, userID string, year int, month time.Month) ([]byte, error) {
	subject, err := s.Users.Principal(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanView(actor, subject) {
		return nil, ErrForbidden
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	lines, err := s.Store.StatementLines(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return renderStatement(userID, from, lines)
}

func (s *Service) JobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	return s.Store.ListJobRuns(ctx, jobType, limit, offset)
}
