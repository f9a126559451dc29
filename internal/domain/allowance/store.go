package allowance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams/internal/domain/access"
)

// Store is the pgx-backed StoreAPI. The one-live-row-per-(user, date)
// invariant on daily allowances rests on the partial unique index
// daily_allowances_user_date_live_idx; writes that collide map to
// ErrDuplicateDay.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const dailyColumns = `id, user_id, date, amount, status, source, approver_id, remarks, created_at, updated_at`

const travelColumns = `id, user_id, date, from_city, to_city, distance, travel_mode, station_type, amount, status, approver_id, remarks, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDaily(row rowScanner) (*DailyAllowance, error) {
	var d DailyAllowance
	var approver *string
	err := row.Scan(&d.ID, &d.UserID, &d.Date, &d.Amount, &d.Status, &d.Source,
		&approver, &d.Remarks, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if approver != nil {
		d.ApproverID = *approver
	}
	return &d, nil
}

func scanTravel(row rowScanner) (*TravelAllowance, error) {
	var t TravelAllowance
	var approver *string
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &t.FromCity, &t.ToCity, &t.Distance,
		&t.TravelMode, &t.StationType, &t.Amount, &t.Status, &approver,
		&t.Remarks, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if approver != nil {
		t.ApproverID = *approver
	}
	return &t, nil
}

// mapDailyConflict converts a unique violation on the live-row index into
// the domain error; anything else passes through.
func mapDailyConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateDay
	}
	return err
}

func (s *Store) GetDaily(ctx context.Context, id string) (*DailyAllowance, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+dailyColumns+`
    FROM daily_allowances
    WHERE id = $1
  `, id)
	return scanDaily(row)
}

func (s *Store) InsertDaily(ctx context.Context, d *DailyAllowance) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO daily_allowances (user_id, date, amount, status, source, remarks)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, d.UserID, d.Date, d.Amount, d.Status, d.Source, d.Remarks).Scan(&id)
	if err != nil {
		return "", mapDailyConflict(err)
	}
	return id, nil
}

func (s *Store) UpdateDaily(ctx context.Context, d *DailyAllowance) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE daily_allowances
    SET date = $2, amount = $3, remarks = $4, updated_at = now()
    WHERE id = $1
  `, d.ID, d.Date, d.Amount, d.Remarks)
	if err != nil {
		return mapDailyConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDaily(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM daily_allowances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetDailyStatus(ctx context.Context, id string, status Status, approverID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE daily_allowances
    SET status = $2, approver_id = $3, updated_at = now()
    WHERE id = $1
  `, id, status, approverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ReplaceDerivedDaily(ctx context.Context, d *DailyAllowance) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    DELETE FROM daily_allowances
    WHERE user_id = $1 AND date = $2
  `, d.UserID, d.Date); err != nil {
		return "", err
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO daily_allowances (user_id, date, amount, status, source, remarks)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, d.UserID, d.Date, d.Amount, d.Status, d.Source, d.Remarks).Scan(&id); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DeleteDerivedDaily(ctx context.Context, userID string, date time.Time) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM daily_allowances
    WHERE user_id = $1 AND date = $2 AND source = $3
  `, userID, date, SourceTravel)
	return err
}

func (s *Store) GetTravel(ctx context.Context, id string) (*TravelAllowance, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+travelColumns+`
    FROM travel_allowances
    WHERE id = $1
  `, id)
	return scanTravel(row)
}

func (s *Store) InsertTravel(ctx context.Context, t *TravelAllowance) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO travel_allowances (user_id, date, from_city, to_city, distance, travel_mode, station_type, amount, status, remarks)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING id
  `, t.UserID, t.Date, t.FromCity, t.ToCity, t.Distance, t.TravelMode,
		t.StationType, t.Amount, t.Status, t.Remarks).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateTravel(ctx context.Context, t *TravelAllowance) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE travel_allowances
    SET date = $2, from_city = $3, to_city = $4, distance = $5, travel_mode = $6,
        station_type = $7, amount = $8, remarks = $9, updated_at = now()
    WHERE id = $1
  `, t.ID, t.Date, t.FromCity, t.ToCity, t.Distance, t.TravelMode,
		t.StationType, t.Amount, t.Remarks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTravel(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM travel_allowances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetTravelStatus(ctx context.Context, id string, status Status, approverID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE travel_allowances
    SET status = $2, approver_id = $3, updated_at = now()
    WHERE id = $1
  `, id, status, approverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDaily(ctx context.Context, scope access.Visibility, f Filter) ([]DailyAllowance, error) {
	query := `
    SELECT a.` + joinColumns(dailyColumns, "a.") + `
    FROM daily_allowances a
    JOIN users u ON u.id = a.user_id
    WHERE 1 = 1`
	query, args := appendScope(query, nil, scope, "u.")
	query, args = appendFilter(query, args, f, "a.")
	query += ` ORDER BY a.date DESC, a.created_at DESC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyAllowance{}
	for rows.Next() {
		d, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) ListTravel(ctx context.Context, scope access.Visibility, f Filter) ([]TravelAllowance, error) {
	query := `
    SELECT a.` + joinColumns(travelColumns, "a.") + `
    FROM travel_allowances a
    JOIN users u ON u.id = a.user_id
    WHERE 1 = 1`
	query, args := appendScope(query, nil, scope, "u.")
	query, args = appendFilter(query, args, f, "a.")
	query += ` ORDER BY a.date DESC, a.created_at DESC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TravelAllowance{}
	for rows.Next() {
		t, err := scanTravel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) SweepCandidates(ctx context.Context, date time.Time) ([]SweepCandidate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.role
    FROM users u
    WHERE u.is_active = true
      AND u.role NOT IN ('ADMIN', 'SUPER_ADMIN')
      AND NOT EXISTS (
        SELECT 1 FROM daily_allowances d
        WHERE d.user_id = u.id AND d.date = $1
      )
    ORDER BY u.id
  `, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SweepCandidate{}
	for rows.Next() {
		var c SweepCandidate
		if err := rows.Scan(&c.UserID, &c.Role); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// appendScope renders a visibility scope into SQL against the joined users
// table. It mirrors access.Visibility.Covers.
func appendScope(query string, args []any, scope access.Visibility, prefix string) (string, []any) {
	switch scope.Kind {
	case access.ScopeAll:
		return query, args
	case access.ScopeHeadquarters:
		args = append(args, scope.HeadquartersID, scope.SelfID)
		query += fmt.Sprintf(" AND (%sheadquarters_id = $%d OR %sid = $%d)", prefix, len(args)-1, prefix, len(args))
		return query, args
	case access.ScopeSubordinates:
		roleNames := make([]string, 0, len(scope.Roles))
		for _, r := range scope.Roles {
			roleNames = append(roleNames, string(r))
		}
		args = append(args, scope.HeadquartersID, roleNames, scope.SelfID)
		query += fmt.Sprintf(" AND ((%sheadquarters_id = $%d AND %srole = ANY($%d)) OR %sid = $%d)",
			prefix, len(args)-2, prefix, len(args)-1, prefix, len(args))
		return query, args
	default:
		args = append(args, scope.SelfID)
		query += fmt.Sprintf(" AND %sid = $%d", prefix, len(args))
		return query, args
	}
}

func appendFilter(query string, args []any, f Filter, prefix string) (string, []any) {
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND %sstatus = $%d", prefix, len(args))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		query += fmt.Sprintf(" AND %suser_id = $%d", prefix, len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND %sdate >= $%d", prefix, len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND %sdate <= $%d", prefix, len(args))
	}
	return query, args
}

// joinColumns prefixes every column in a comma-separated list, minus the
// first prefix already written by the caller.
func joinColumns(columns, prefix string) string {
	parts := strings.Split(columns, ", ")
	return strings.Join(parts, ", "+prefix)
}
