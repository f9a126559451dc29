package route

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("travel route not found")
	ErrRouteExists   = errors.New("route already exists for this user")
	ErrInvalidRoute  = errors.New("route requires fromCity, toCity, positive distance and amount")
	ErrEmptyRouteSet = errors.New("route set must not be empty")
)

// Service administers per-user travel routes. Routes are managed by admins
// and consumed by the travel claim lifecycle via Resolve.
type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func validateInput(in RouteInput) error {
	if strings.TrimSpace(in.FromCity) == "" || strings.TrimSpace(in.ToCity) == "" {
		return ErrInvalidRoute
	}
	if in.Distance <= 0 || in.Amount <= 0 {
		return ErrInvalidRoute
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*TravelRoute, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]TravelRoute, error) {
	return s.Store.ListForUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in RouteInput) (*TravelRoute, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	existing, err := s.Store.FindByRoute(ctx, userID, in.FromCity, in.ToCity)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRouteExists
	}
	r := &TravelRoute{
		UserID:   userID,
		FromCity: in.FromCity,
		ToCity:   in.ToCity,
		Distance: in.Distance,
		Amount:   in.Amount,
		Active:   true,
	}
	id, err := s.Store.Insert(ctx, r)
	if err != nil {
		return nil, err
	}
	r.ID = id
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, in RouteInput, active bool) (*TravelRoute, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.FromCity = in.FromCity
	r.ToCity = in.ToCity
	r.Distance = in.Distance
	r.Amount = in.Amount
	r.Active = active
	if err := s.Store.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Store.Get(ctx, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// BulkReplace swaps a user's whole route set transactionally.
func (s *Service) BulkReplace(ctx context.Context, userID string, routes []RouteInput) ([]TravelRoute, error) {
	if len(routes) == 0 {
		return nil, ErrEmptyRouteSet
	}
	for _, in := range routes {
		if err := validateInput(in); err != nil {
			return nil, err
		}
	}
	return s.Store.ReplaceForUser(ctx, userID, routes)
}

// Resolve returns the active route record for (userID, fromCity, toCity).
// Claims for unconfigured routes are rejected by the caller.
func (s *Service) Resolve(ctx context.Context, userID, fromCity, toCity string) (*TravelRoute, error) {
	r, err := s.Store.FindByRoute(ctx, userID, fromCity, toCity)
	if err != nil {
		return nil, err
	}
	if !r.Active {
		return nil, ErrNotFound
	}
	return r, nil
}
