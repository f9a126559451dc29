package user

import (
	"context"
	"errors"

	"ams/internal/domain/access"
	"ams/internal/domain/role"
)

var ErrForbidden = errors.New("forbidden")

// Service wraps user administration with the authorization engine: every
// read is filtered through the actor's visibility and every write through
// the manager-assignment rule.
type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, actor access.Principal, id string) (*User, error) {
	target, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanView(actor, target.Principal()) {
		return nil, ErrForbidden
	}
	return target, nil
}

// Principal resolves the identity tuple for a stored user. Callers in other
// domains use it to feed the authorization predicates.
func (s *Service) Principal(ctx context.Context, id string) (access.Principal, error) {
	u, err := s.Store.Get(ctx, id)
	if err != nil {
		return access.Principal{}, err
	}
	return u.Principal(), nil
}

// List returns the users the actor is entitled to see, narrowed by filter.
func (s *Service) List(ctx context.Context, actor access.Principal, filter ListFilter) ([]User, error) {
	return s.Store.List(ctx, access.VisibilityFor(actor), filter)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if err := s.validateManager(ctx, "", in.Role, in.ReportingManagerID); err != nil {
		return nil, err
	}
	taken, err := s.Store.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	return s.Store.Insert(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	if _, err := s.Store.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validateManager(ctx, id, in.Role, in.ReportingManagerID); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, in)
}

// validateManager resolves the manager row and applies the pairing rule
// from logic.go. userID is empty on create.
func (s *Service) validateManager(ctx context.Context, userID string, userRole role.Role, managerID string) error {
	if managerID == "" {
		return ValidateManagerAssignment(userRole, "", false)
	}
	if userID != "" && managerID == userID {
		return ErrSelfManager
	}
	manager, err := s.Store.Get(ctx, managerID)
	if errors.Is(err, ErrNotFound) {
		return ErrManagerInactive
	}
	if err != nil {
		return err
	}
	if !manager.Active {
		return ErrManagerInactive
	}
	return ValidateManagerAssignment(userRole, manager.Role, true)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.Store.Deactivate(ctx, id)
}

func (s *Service) SetPassword(ctx context.Context, id, passwordHash string) error {
	return s.Store.UpdatePassword(ctx, id, passwordHash)
}

// Team returns the actor's direct reports (reporting-manager tree only;
// there is no separate membership table).
func (s *Service) Team(ctx context.Context, managerID string) ([]User, error) {
	return s.Store.TeamOf(ctx, managerID)
}

func (s *Service) IsDirectReport(ctx context.Context, managerID, userID string) (bool, error) {
	return s.Store.IsDirectReport(ctx, managerID, userID)
}

func (s *Service) Hierarchy(ctx context.Context) ([]HierarchyNode, error) {
	return s.Store.Hierarchy(ctx)
}
