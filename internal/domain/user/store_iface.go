package user

import (
	"context"

	"ams/internal/domain/access"
)

// StoreAPI is what the service needs from persistence. The pgx-backed Store
// is the production implementation; tests supply in-memory fakes.
type StoreAPI interface {
	Get(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Insert(ctx context.Context, in CreateInput) (*User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, scope access.Visibility, filter ListFilter) ([]User, error)
	TeamOf(ctx context.Context, managerID string) ([]User, error)
	IsDirectReport(ctx context.Context, managerID, userID string) (bool, error)
	Hierarchy(ctx context.Context) ([]HierarchyNode, error)
}
