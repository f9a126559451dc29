package route

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const routeColumns = `id, user_id, from_city, to_city, distance, amount, is_active, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanRoute(row pgx.Row) (*TravelRoute, error) {
	var r TravelRoute
	err := row.Scan(&r.ID, &r.UserID, &r.FromCity, &r.ToCity, &r.Distance, &r.Amount, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) Get(ctx context.Context, id string) (*TravelRoute, error) {
	return scanRoute(s.DB.QueryRow(ctx, `
    SELECT `+routeColumns+` FROM travel_routes WHERE id = $1
  `, id))
}

func (s *Store) ListForUser(ctx context.Context, userID string) ([]TravelRoute, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+routeColumns+`
    FROM travel_routes
    WHERE user_id = $1
    ORDER BY from_city, to_city
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TravelRoute
	for rows.Next() {
		var r TravelRoute
		if err := rows.Scan(&r.ID, &r.UserID, &r.FromCity, &r.ToCity, &r.Distance, &r.Amount, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) FindByRoute(ctx context.Context, userID, fromCity, toCity string) (*TravelRoute, error) {
	return scanRoute(s.DB.QueryRow(ctx, `
    SELECT `+routeColumns+`
    FROM travel_routes
    WHERE user_id = $1 AND from_city = $2 AND to_city = $3
  `, userID, fromCity, toCity))
}

func (s *Store) Insert(ctx context.Context, r *TravelRoute) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO travel_routes (user_id, from_city, to_city, distance, amount, is_active)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, r.UserID, r.FromCity, r.ToCity, r.Distance, r.Amount, r.Active).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, r *TravelRoute) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE travel_routes
    SET from_city = $1, to_city = $2, distance = $3, amount = $4, is_active = $5, updated_at = now()
    WHERE id = $6
  `, r.FromCity, r.ToCity, r.Distance, r.Amount, r.Active, r.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM travel_routes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ReplaceForUser(ctx context.Context, userID string, routes []RouteInput) ([]TravelRoute, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM travel_routes WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	out := make([]TravelRoute, 0, len(routes))
	for _, in := range routes {
		var r TravelRoute
		if err := tx.QueryRow(ctx, `
      INSERT INTO travel_routes (user_id, from_city, to_city, distance, amount, is_active)
      VALUES ($1,$2,$3,$4,$5,true)
      RETURNING `+routeColumns+`
    `, userID, in.FromCity, in.ToCity, in.Distance, in.Amount).Scan(
			&r.ID, &r.UserID, &r.FromCity, &r.ToCity, &r.Distance, &r.Amount, &r.Active, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
