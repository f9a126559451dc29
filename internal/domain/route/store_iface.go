package route

import "context"

type StoreAPI interface {
	Get(ctx context.Context, id string) (*TravelRoute, error)
	ListForUser(ctx context.Context, userID string) ([]TravelRoute, error)
	FindByRoute(ctx context.Context, userID, fromCity, toCity string) (*TravelRoute, error)
	Insert(ctx context.Context, r *TravelRoute) (string, error)
	Update(ctx context.Context, r *TravelRoute) error
	Delete(ctx context.Context, id string) error
	// ReplaceForUser swaps out a user's entire route set in one
	// transaction; a failure leaves the previous set intact.
	ReplaceForUser(ctx context.Context, userID string, routes []RouteInput) ([]TravelRoute, error)
}
