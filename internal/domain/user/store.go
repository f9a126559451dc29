package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ams/internal/domain/access"
)

const userColumns = `id, username, email, full_name, role, COALESCE(department_id::text, ''), headquarters_id,
           COALESCE(reporting_manager_id::text, ''), is_active, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role,
		&u.DepartmentID, &u.HeadquartersID, &u.ReportingManagerID,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, id))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE username = $1
  `, username))
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM users WHERE username = $1
  `, username).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// PasswordHashByUsername is used by the login flow only; the hash never
// leaves the auth handler.
func (s *Store) PasswordHashByUsername(ctx context.Context, username string) (string, string, error) {
	var id, hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, password_hash FROM users WHERE username = $1 AND is_active = true
  `, username).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	return id, hash, nil
}

func (s *Store) Insert(ctx context.Context, in CreateInput) (*User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (username, password_hash, email, full_name, role, department_id, headquarters_id, reporting_manager_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+userColumns+`
  `, in.Username, in.PasswordHash, in.Email, in.FullName, string(in.Role),
		nullableID(in.DepartmentID), in.HeadquartersID, nullableID(in.ReportingManagerID)))
}

func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    UPDATE users
    SET email = $1, full_name = $2, role = $3, department_id = $4,
        headquarters_id = $5, reporting_manager_id = $6, is_active = $7, updated_at = now()
    WHERE id = $8
    RETURNING `+userColumns+`
  `, in.Email, in.FullName, string(in.Role), nullableID(in.DepartmentID),
		in.HeadquartersID, nullableID(in.ReportingManagerID), in.Active, id))
}

// nullableID maps the empty string to SQL NULL for optional UUID columns.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
  `, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes: the row is kept so historical allowances stay
// attributable.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET is_active = false, updated_at = now() WHERE id = $1
  `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, scope access.Visibility, filter ListFilter) ([]User, error) {
	query := `
    SELECT ` + userColumns + `
    FROM users
    WHERE 1=1
  `
	var args []any

	query, args = appendScope(query, args, scope, "")

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (username ILIKE $%d OR full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args))
	}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND department_id = $%d", len(args))
	}
	if filter.HeadquartersID != "" {
		args = append(args, filter.HeadquartersID)
		query += fmt.Sprintf(" AND headquarters_id = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += " ORDER BY full_name ASC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role,
			&u.DepartmentID, &u.HeadquartersID, &u.ReportingManagerID,
			&u.Active, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// appendScope renders a Visibility into SQL against the users table.
// prefix qualifies the column names when users is joined under an alias.
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

func (s *Store) TeamOf(ctx context.Context, managerID string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE reporting_manager_id = $1 AND is_active = true
    ORDER BY full_name ASC
  `, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role,
			&u.DepartmentID, &u.HeadquartersID, &u.ReportingManagerID,
			&u.Active, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Store) IsDirectReport(ctx context.Context, managerID, userID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM users WHERE id = $1 AND reporting_manager_id = $2
  `, userID, managerID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Hierarchy(ctx context.Context) ([]HierarchyNode, error) {
	rows, err := s.DB.Query(ctx, `
    WITH RECURSIVE reporting_tree AS (
      SELECT id, full_name, role, 1 AS level, full_name::text AS path
      FROM users
      WHERE reporting_manager_id IS NULL AND is_active = true

      UNION ALL

      SELECT u.id, u.full_name, u.role, t.level + 1, t.path || ' > ' || u.full_name
      FROM users u
      JOIN reporting_tree t ON u.reporting_manager_id = t.id
      WHERE u.is_active = true
    )
    SELECT id, full_name, role, level, path
    FROM reporting_tree
    ORDER BY path
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HierarchyNode
	for rows.Next() {
		var n HierarchyNode
		if err := rows.Scan(&n.ID, &n.FullName, &n.Role, &n.Level, &n.Path); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
