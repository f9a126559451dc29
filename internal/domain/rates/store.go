package rates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListRoleRates(ctx context.Context) ([]RoleRate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT role, daily_amount, updated_at
    FROM role_rates
    ORDER BY daily_amount DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoleRate
	for rows.Next() {
		var r RoleRate
		if err := rows.Scan(&r.Role, &r.DailyAmount, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// DailyRateForRole returns the configured base amount for a role. The
// second return is false when no rate is configured.
func (s *Store) DailyRateForRole(ctx context.Context, roleName string) (float64, bool, error) {
	var amount float64
	err := s.DB.QueryRow(ctx, `
    SELECT daily_amount FROM role_rates WHERE role = $1
  `, roleName).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

func (s *Store) UpsertRoleRate(ctx context.Context, roleName string, amount float64) (RoleRate, error) {
	var r RoleRate
	err := s.DB.QueryRow(ctx, `
    INSERT INTO role_rates (role, daily_amount)
    VALUES ($1, $2)
    ON CONFLICT (role) DO UPDATE SET daily_amount = EXCLUDED.daily_amount, updated_at = now()
    RETURNING role, daily_amount, updated_at
  `, roleName, amount).Scan(&r.Role, &r.DailyAmount, &r.UpdatedAt)
	return r, err
}

func (s *Store) ListStationMultipliers(ctx context.Context) ([]StationMultiplier, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT station_type, multiplier, updated_at
    FROM station_multipliers
    ORDER BY station_type
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StationMultiplier
	for rows.Next() {
		var m StationMultiplier
		if err := rows.Scan(&m.StationType, &m.Multiplier, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) MultiplierFor(ctx context.Context, station StationType) (float64, bool, error) {
	var multiplier float64
	err := s.DB.QueryRow(ctx, `
    SELECT multiplier FROM station_multipliers WHERE station_type = $1
  `, station).Scan(&multiplier)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return multiplier, true, nil
}

func (s *Store) UpdateStationMultiplier(ctx context.Context, station StationType, multiplier float64) (StationMultiplier, error) {
	var m StationMultiplier
	err := s.DB.QueryRow(ctx, `
    UPDATE station_multipliers
    SET multiplier = $1, updated_at = now()
    WHERE station_type = $2
    RETURNING station_type, multiplier, updated_at
  `, multiplier, station).Scan(&m.StationType, &m.Multiplier, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StationMultiplier{}, ErrUnknownStationType
	}
	return m, err
}
