package route

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
)

type fakeStore struct {
	routes map[string]*TravelRoute
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{routes: map[string]*TravelRoute{}}
}

func (f *fakeStore) Get(_ context.Context, id string) (*TravelRoute, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListForUser(_ context.Context, userID string) ([]TravelRoute, error) {
	var out []TravelRoute
	for _, r := range f.routes {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByRoute(_ context.Context, userID, fromCity, toCity string) (*TravelRoute, error) {
	for _, r := range f.routes {
		if r.UserID == userID && r.FromCity == fromCity && r.ToCity == toCity {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Insert(_ context.Context, r *TravelRoute) (string, error) {
	f.nextID++
	id := "route-" + strconv.Itoa(f.nextID)
	cp := *r
	cp.ID = id
	f.routes[id] = &cp
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, r *TravelRoute) error {
	if _, ok := f.routes[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	f.routes[r.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.routes[id]; !ok {
		return ErrNotFound
	}
	delete(f.routes, id)
	return nil
}

func (f *fakeStore) ReplaceForUser(ctx context.Context, userID string, routes []RouteInput) ([]TravelRoute, error) {
	for id, r := range f.routes {
		if r.UserID == userID {
			delete(f.routes, id)
		}
	}
	var out []TravelRoute
	for _, in := range routes {
		r := &TravelRoute{
			UserID:   userID,
			FromCity: in.FromCity,
			ToCity:   in.ToCity,
			Distance: in.Distance,
			Amount:   in.Amount,
			Active:   true,
		}
		id, err := f.Insert(ctx, r)
		if err != nil {
			return nil, err
		}
		r.ID = id
		out = append(out, *r)
	}
	return out, nil
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeStore())
	cases := []RouteInput{
		{FromCity: "", ToCity: "Kandy", Distance: 115.5, Amount: 2500},
		{FromCity: "Colombo", ToCity: "  ", Distance: 115.5, Amount: 2500},
		{FromCity: "Colombo", ToCity: "Kandy", Distance: 0, Amount: 2500},
		{FromCity: "Colombo", ToCity: "Kandy", Distance: 115.5, Amount: -1},
	}
	for i, in := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			if _, err := svc.Create(context.Background(), "u-1", in); !errors.Is(err, ErrInvalidRoute) {
				t.Fatalf("Create(%+v) error = %v, want ErrInvalidRoute", in, err)
			}
		})
	}
}

func TestCreateRejectsDuplicateRoute(t *testing.T) {
	svc := NewService(newFakeStore())
	in := RouteInput{FromCity: "Colombo", ToCity: "Kandy", Distance: 115.5, Amount: 2500}

	if _, err := svc.Create(context.Background(), "u-1", in); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "u-1", in); !errors.Is(err, ErrRouteExists) {
		t.Fatalf("duplicate Create error = %v, want ErrRouteExists", err)
	}
	// Same city pair for another user is fine.
	if _, err := svc.Create(context.Background(), "u-2", in); err != nil {
		t.Fatalf("Create for second user failed: %v", err)
	}
}

func TestResolveSkipsInactiveRoutes(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	in := RouteInput{FromCity: "Colombo", ToCity: "Galle", Distance: 120, Amount: 1800}

	created, err := svc.Create(context.Background(), "u-1", in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r, err := svc.Resolve(context.Background(), "u-1", "Colombo", "Galle"); err != nil || r.ID != created.ID {
		t.Fatalf("Resolve = (%v, %v), want route %s", r, err, created.ID)
	}

	if _, err := svc.Update(context.Background(), created.ID, in, false); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "u-1", "Colombo", "Galle"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve of inactive route error = %v, want ErrNotFound", err)
	}
}

func TestBulkReplaceSwapsWholeSet(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	if _, err := svc.Create(context.Background(), "u-1", RouteInput{FromCity: "Colombo", ToCity: "Kandy", Distance: 115.5, Amount: 2500}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.BulkReplace(context.Background(), "u-1", nil); !errors.Is(err, ErrEmptyRouteSet) {
		t.Fatalf("BulkReplace(empty) error = %v, want ErrEmptyRouteSet", err)
	}
	bad := []RouteInput{
		{FromCity: "Colombo", ToCity: "Galle", Distance: 120, Amount: 1800},
		{FromCity: "Colombo", ToCity: "", Distance: 50, Amount: 900},
	}
	if _, err := svc.BulkReplace(context.Background(), "u-1", bad); !errors.Is(err, ErrInvalidRoute) {
		t.Fatalf("BulkReplace(invalid member) error = %v, want ErrInvalidRoute", err)
	}
	// A rejected set must not touch the existing routes.
	if got, _ := svc.ListForUser(context.Background(), "u-1"); len(got) != 1 {
		t.Fatalf("routes after rejected replace = %d, want 1", len(got))
	}

	replacement := []RouteInput{
		{FromCity: "Colombo", ToCity: "Galle", Distance: 120, Amount: 1800},
		{FromCity: "Colombo", ToCity: "Jaffna", Distance: 400, Amount: 6200},
	}
	out, err := svc.BulkReplace(context.Background(), "u-1", replacement)
	if err != nil {
		t.Fatalf("BulkReplace failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("replaced set size = %d, want 2", len(out))
	}
	if _, err := svc.Resolve(context.Background(), "u-1", "Colombo", "Kandy"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old route survived replace: err = %v, want ErrNotFound", err)
	}
}
