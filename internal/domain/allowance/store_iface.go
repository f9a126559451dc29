package allowance

import (
	"context"
	"time"

	"ams/internal/domain/access"
	"ams/internal/domain/rates"
	"ams/internal/domain/role"
	"ams/internal/domain/route"
)

// StoreAPI is the persistence contract for allowance records. The pgx
// implementation in store.go backs production; tests use in-memory fakes.
//
// ReplaceDerivedDaily and InsertDaily are the serialization points for the
// one-live-row-per-(user,date) invariant: the store must apply them under
// the partial unique index on (user_id, date) for non-rejected rows.
type StoreAPI interface {
	GetDaily(ctx context.Context, id string) (*DailyAllowance, error)
	InsertDaily(ctx context.Context, d *DailyAllowance) (string, error)
	UpdateDaily(ctx context.Context, d *DailyAllowance) error
	DeleteDaily(ctx context.Context, id string) error
	SetDailyStatus(ctx context.Context, id string, status Status, approverID string) error
	// ReplaceDerivedDaily deletes any daily allowance for (d.UserID, d.Date)
	// regardless of source and inserts d, atomically.
	ReplaceDerivedDaily(ctx context.Context, d *DailyAllowance) (string, error)
	// DeleteDerivedDaily removes the travel-derived daily allowance for
	// (userID, date), if any.
	DeleteDerivedDaily(ctx context.Context, userID string, date time.Time) error

	GetTravel(ctx context.Context, id string) (*TravelAllowance, error)
	InsertTravel(ctx context.Context, t *TravelAllowance) (string, error)
	UpdateTravel(ctx context.Context, t *TravelAllowance) error
	DeleteTravel(ctx context.Context, id string) error
	SetTravelStatus(ctx context.Context, id string, status Status, approverID string) error

	ListDaily(ctx context.Context, scope access.Visibility, f Filter) ([]DailyAllowance, error)
	ListTravel(ctx context.Context, scope access.Visibility, f Filter) ([]TravelAllowance, error)

	// SweepCandidates returns active non-admin users lacking any daily
	// allowance on date.
	SweepCandidates(ctx context.Context, date time.Time) ([]SweepCandidate, error)
}

// PrincipalStore resolves claim owners for the authorization predicates.
type PrincipalStore interface {
	Principal(ctx context.Context, userID string) (access.Principal, error)
}

// RateStore exposes the pricing tables the lifecycle depends on; the rates
// service satisfies it.
type RateStore interface {
	DailyRateForRole(ctx context.Context, r role.Role) (float64, bool, error)
	MultiplierFor(ctx context.Context, station rates.StationType) (float64, bool, error)
}

// RouteStore resolves a user's configured travel route; the route service
// satisfies it.
type RouteStore interface {
	Resolve(ctx context.Context, userID, fromCity, toCity string) (*route.TravelRoute, error)
}
