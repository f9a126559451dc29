package rates

import (
	"context"
	"errors"

	"ams/internal/domain/role"
)

var (
	ErrUnknownStationType = errors.New("unknown station type")
	ErrInvalidAmount      = errors.New("amount must be positive")
)

// Service manages the pricing tables that drive allowance amounts: the
// per-role daily rate and the per-station-type multiplier.
type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ListRoleRates(ctx context.Context) ([]RoleRate, error) {
	return s.Store.ListRoleRates(ctx)
}

func (s *Service) SetRoleRate(ctx context.Context, roleName string, amount float64) (RoleRate, error) {
	r, err := role.Parse(roleName)
	if err != nil {
		return RoleRate{}, err
	}
	if amount <= 0 {
		return RoleRate{}, ErrInvalidAmount
	}
	return s.Store.UpsertRoleRate(ctx, string(r), amount)
}

func (s *Service) DailyRateForRole(ctx context.Context, r role.Role) (float64, bool, error) {
	return s.Store.DailyRateForRole(ctx, string(r))
}

func (s *Service) ListStationMultipliers(ctx context.Context) ([]StationMultiplier, error) {
	return s.Store.ListStationMultipliers(ctx)
}

func (s *Service) SetStationMultiplier(ctx context.Context, station StationType, multiplier float64) (StationMultiplier, error) {
	if multiplier <= 0 {
		return StationMultiplier{}, ErrInvalidAmount
	}
	return s.Store.UpdateStationMultiplier(ctx, station, multiplier)
}

func (s *Service) MultiplierFor(ctx context.Context, station StationType) (float64, bool, error) {
	return s.Store.MultiplierFor(ctx, station)
}
