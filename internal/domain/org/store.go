package org

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

func (s *Store) ListHeadquarters(ctx context.Context) ([]Headquarters, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, location, region, country, created_at
    FROM headquarters
    ORDER BY name ASC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Headquarters{}
	for rows.Next() {
		var hq Headquarters
		if err := rows.Scan(&hq.ID, &hq.Name, &hq.Location, &hq.Region, &hq.Country, &hq.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, hq)
	}
	return out, rows.Err()
}

func (s *Store) GetHeadquarters(ctx context.Context, id string) (*Headquarters, error) {
	var hq Headquarters
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, location, region, country, created_at
    FROM headquarters
    WHERE id = $1
  `, id).Scan(&hq.ID, &hq.Name, &hq.Location, &hq.Region, &hq.Country, &hq.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hq, nil
}

func (s *Store) InsertHeadquarters(ctx context.Context, in HeadquartersInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO headquarters (name, location, region, country)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, in.Name, in.Location, in.Region, in.Country).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListDepartments(ctx context.Context, headquartersID string) ([]Department, error) {
	query := `
    SELECT id, name, headquarters_id, created_at
    FROM departments`
	var args []any
	if headquartersID != "" {
		query += ` WHERE headquarters_id = $1`
		args = append(args, headquartersID)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Department{}
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.HeadquartersID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) InsertDepartment(ctx context.Context, in DepartmentInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, headquarters_id)
    VALUES ($1, $2)
    RETURNING id
  `, in.Name, in.HeadquartersID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
