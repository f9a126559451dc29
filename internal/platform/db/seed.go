package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"ams/internal/auth"
	"ams/internal/domain/rates"
	"ams/internal/domain/role"
	"ams/internal/platform/config"
)

var defaultRoleRates = map[role.Role]float64{
	role.Trainee:        200,
	role.Junior:         350,
	role.Senior:         500,
	role.TeamLead:       650,
	role.DepartmentHead: 800,
}

var defaultStationMultipliers = map[rates.StationType]float64{
	rates.StationNormal:     1.00,
	rates.StationOutstation: 1.25,
	rates.StationExStation:  1.10,
}

// Seed is idempotent: it fills reference tables that are empty and
// bootstraps the first super admin.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	hqID, err := ensureHeadquarters(ctx, pool, cfg.SeedHQName)
	if err != nil {
		return err
	}

	if err := ensureStationMultipliers(ctx, pool); err != nil {
		return err
	}

	if err := ensureRoleRates(ctx, pool); err != nil {
		return err
	}

	if cfg.SeedAdminPassword != "" {
		if err := ensureSuperAdmin(ctx, pool, hqID, cfg.SeedAdminUsername, cfg.SeedAdminPassword); err != nil {
			return err
		}
	} else {
		slog.Warn("SEED_ADMIN_PASSWORD not set, skipping super admin bootstrap")
	}

	return nil
}

func ensureHeadquarters(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM headquarters WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO headquarters (name, location, region, country) VALUES ($1, '', '', '') RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}

	if _, err := pool.Exec(ctx, "INSERT INTO departments (name, headquarters_id) VALUES ('General', $1)", id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureStationMultipliers(ctx context.Context, pool *pgxpool.Pool) error {
	for station, multiplier := range defaultStationMultipliers {
		_, err := pool.Exec(ctx, `
      INSERT INTO station_multipliers (station_type, multiplier)
      VALUES ($1, $2)
      ON CONFLICT (station_type) DO NOTHING
    `, string(station), multiplier)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoleRates(ctx context.Context, pool *pgxpool.Pool) error {
	for r, amount := range defaultRoleRates {
		_, err := pool.Exec(ctx, `
      INSERT INTO role_rates (role, daily_amount)
      VALUES ($1, $2)
      ON CONFLICT (role) DO NOTHING
    `, string(r), amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureSuperAdmin(ctx context.Context, pool *pgxpool.Pool, hqID, username, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE role = $1", string(role.SuperAdmin)).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password_hash, email, full_name, role, headquarters_id)
    VALUES ($1, $2, '', 'Super Admin', $3, $4)
  `, username, hash, string(role.SuperAdmin), hqID)
	return err
}
