package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ams/internal/domain/access"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ApprovedDailyTotal(ctx context.Context, scope access.Visibility, from, to time.Time) (float64, error) {
	query := `
    SELECT COALESCE(SUM(a.amount), 0)
    FROM daily_allowances a
    JOIN users u ON u.id = a.user_id
    WHERE a.status = 'APPROVED' AND a.date >= $1 AND a.date <= $2`
	query, args := scopeClause(query, []any{from, to}, scope)
	var total float64
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ApprovedTravelTotal(ctx context.Context, scope access.Visibility, from, to time.Time) (float64, error) {
	query := `
    SELECT COALESCE(SUM(a.amount), 0)
    FROM travel_allowances a
    JOIN users u ON u.id = a.user_id
    WHERE a.status = 'APPROVED' AND a.date >= $1 AND a.date <= $2`
	query, args := scopeClause(query, []any{from, to}, scope)
	var total float64
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) PendingCount(ctx context.Context, scope access.Visibility, table string) (int, error) {
	query := `
    SELECT COUNT(1)
    FROM ` + table + ` a
    JOIN users u ON u.id = a.user_id
    WHERE a.status = 'PENDING'`
	query, args := scopeClause(query, nil, scope)
	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) SpendByRole(ctx context.Context, scope access.Visibility, from, to time.Time) ([]RoleSpend, error) {
	query := `
    SELECT u.role, COALESCE(SUM(a.amount), 0)
    FROM daily_allowances a
    JOIN users u ON u.id = a.user_id
    WHERE a.status = 'APPROVED' AND a.date >= $1 AND a.date <= $2`
	query, args := scopeClause(query, []any{from, to}, scope)
	query += ` GROUP BY u.role ORDER BY 2 DESC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoleSpend{}
	for rows.Next() {
		var r RoleSpend
		if err := rows.Scan(&r.Role, &r.Total); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) TopRoutes(ctx context.Context, scope access.Visibility, from, to time.Time, limit int) ([]RouteUsage, error) {
	query := `
    SELECT a.from_city, a.to_city, COUNT(1), COALESCE(SUM(a.amount), 0)
    FROM travel_allowances a
    JOIN users u ON u.id = a.user_id
    WHERE a.status = 'APPROVED' AND a.date >= $1 AND a.date <= $2`
	query, args := scopeClause(query, []any{from, to}, scope)
	args = append(args, limit)
	query += fmt.Sprintf(" GROUP BY a.from_city, a.to_city ORDER BY 3 DESC LIMIT $%d", len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RouteUsage{}
	for rows.Next() {
		var r RouteUsage
		if err := rows.Scan(&r.FromCity, &r.ToCity, &r.Trips, &r.Total); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) TeamPerformance(ctx context.Context, managerID string, from, to time.Time) ([]TeamSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.full_name, u.role,
           COALESCE(SUM(a.amount) FILTER (WHERE a.status = 'APPROVED'), 0),
           COUNT(1) FILTER (WHERE a.status = 'PENDING')
    FROM users u
    LEFT JOIN daily_allowances a ON a.user_id = u.id AND a.date >= $2 AND a.date <= $3
    WHERE u.reporting_manager_id = $1 AND u.is_active = true
    GROUP BY u.id, u.full_name, u.role
    ORDER BY u.full_name ASC
  `, managerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TeamSummary{}
	for rows.Next() {
		var t TeamSummary
		if err := rows.Scan(&t.UserID, &t.FullName, &t.Role, &t.Approved, &t.Pending); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) StatementLines(ctx context.Context, userID string, from, to time.Time) ([]StatementLine, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT date, 'DAILY', remarks, status, amount
    FROM daily_allowances
    WHERE user_id = $1 AND date >= $2 AND date <= $3
    UNION ALL
    SELECT date, 'TRAVEL', from_city || ' - ' || to_city, status, amount
    FROM travel_allowances
    WHERE user_id = $1 AND date >= $2 AND date <= $3
    ORDER BY 1 ASC
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatementLine{}
	for rows.Next() {
		var line StatementLine
		if err := rows.Scan(&line.Date, &line.Kind, &line.Detail, &line.Status, &line.Amount); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (s *Store) ListJobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	query := `
    SELECT id, job_type, status, details_json, started_at, completed_at
    FROM job_runs
    WHERE 1 = 1`
	var args []any
	if jobType != "" {
		args = append(args, jobType)
		query += fmt.Sprintf(" AND job_type = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		var id, jt, status string
		var details []byte
		var startedAt time.Time
		var completedAt *time.Time
		if err := rows.Scan(&id, &jt, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		run := map[string]any{
			"id": id, "jobType": jt, "status": status,
			"details": string(details), "startedAt": startedAt,
		}
		if completedAt != nil {
			run["completedAt"] = *completedAt
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// scopeClause renders the caller's visibility against the joined users
// table; queries always alias it as u.
func scopeClause(query string, args []any, scope access.Visibility) (string, []any) {
	switch scope.Kind {
	case access.ScopeAll:
		return query, args
	case access.ScopeHeadquarters:
		args = append(args, scope.HeadquartersID, scope.SelfID)
		return query + fmt.Sprintf(" AND (u.headquarters_id = $%d OR u.id = $%d)", len(args)-1, len(args)), args
	case access.ScopeSubordinates:
		roleNames := make([]string, 0, len(scope.Roles))
		for _, r := range scope.Roles {
			roleNames = append(roleNames, string(r))
		}
		args = append(args, scope.HeadquartersID, roleNames, scope.SelfID)
		return query + fmt.Sprintf(" AND ((u.headquarters_id = $%d AND u.role = ANY($%d)) OR u.id = $%d)",
			len(args)-2, len(args)-1, len(args)), args
	default:
		args = append(args, scope.SelfID)
		return query + fmt.Sprintf(" AND u.id = $%d", len(args)), args
	}
}
