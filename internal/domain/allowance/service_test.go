package allowance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ams/internal/domain/access"
	"ams/internal/domain/rates"
	"ams/internal/domain/role"
	"ams/internal/domain/route"
)

type fakeStore struct {
	daily  map[string]*DailyAllowance
	travel map[string]*TravelAllowance
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{daily: map[string]*DailyAllowance{}, travel: map[string]*TravelAllowance{}}
}

func (f *fakeStore) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) GetDaily(_ context.Context, id string) (*DailyAllowance, error) {
	d, ok := f.daily[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) InsertDaily(_ context.Context, d *DailyAllowance) (string, error) {
	id := f.id()
	cp := *d
	cp.ID = id
	f.daily[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateDaily(_ context.Context, d *DailyAllowance) error {
	if _, ok := f.daily[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	f.daily[d.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteDaily(_ context.Context, id string) error {
	if _, ok := f.daily[id]; !ok {
		return ErrNotFound
	}
	delete(f.daily, id)
	return nil
}

func (f *fakeStore) SetDailyStatus(_ context.Context, id string, status Status, approverID string) error {
	d, ok := f.daily[id]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	d.ApproverID = approverID
	return nil
}

func (f *fakeStore) ReplaceDerivedDaily(_ context.Context, d *DailyAllowance) (string, error) {
	for id, existing := range f.daily {
		if existing.UserID == d.UserID && existing.Date.Equal(d.Date) {
			delete(f.daily, id)
		}
	}
	return f.InsertDaily(context.Background(), d)
}

func (f *fakeStore) DeleteDerivedDaily(_ context.Context, userID string, date time.Time) error {
	for id, d := range f.daily {
		if d.UserID == userID && d.Date.Equal(date) && d.Source == SourceTravel {
			delete(f.daily, id)
		}
	}
	return nil
}

func (f *fakeStore) GetTravel(_ context.Context, id string) (*TravelAllowance, error) {
	t, ok := f.travel[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) InsertTravel(_ context.Context, t *TravelAllowance) (string, error) {
	id := f.id()
	cp := *t
	cp.ID = id
	f.travel[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateTravel(_ context.Context, t *TravelAllowance) error {
	if _, ok := f.travel[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	f.travel[t.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteTravel(_ context.Context, id string) error {
	if _, ok := f.travel[id]; !ok {
		return ErrNotFound
	}
	delete(f.travel, id)
	return nil
}

func (f *fakeStore) SetTravelStatus(_ context.Context, id string, status Status, approverID string) error {
	t, ok := f.travel[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	t.ApproverID = approverID
	return nil
}

func (f *fakeStore) ListDaily(_ context.Context, scope access.Visibility, filter Filter) ([]DailyAllowance, error) {
	out := []DailyAllowance{}
	for _, d := range f.daily {
		if !f.covers(scope, d.UserID) {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeStore) ListTravel(_ context.Context, scope access.Visibility, filter Filter) ([]TravelAllowance, error) {
	out := []TravelAllowance{}
	for _, t := range f.travel {
		if !f.covers(scope, t.UserID) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeStore) SweepCandidates(_ context.Context, date time.Time) ([]SweepCandidate, error) {
	return nil, nil
}

// covers consults the shared principal registry so the fake list matches
// the SQL scope rendering.
func (f *fakeStore) covers(scope access.Visibility, userID string) bool {
	p, ok := principals[userID]
	if !ok {
		return false
	}
	return scope.Covers(p)
}

var principals = map[string]access.Principal{}

type fakePrincipals struct{}

func (fakePrincipals) Principal(_ context.Context, userID string) (access.Principal, error) {
	p, ok := principals[userID]
	if !ok {
		return access.Principal{}, ErrNotFound
	}
	return p, nil
}

type fakeRates struct {
	roleRates   map[role.Role]float64
	multipliers map[rates.StationType]float64
}

func (f fakeRates) DailyRateForRole(_ context.Context, r role.Role) (float64, bool, error) {
	amount, ok := f.roleRates[r]
	return amount, ok, nil
}

func (f fakeRates) MultiplierFor(_ context.Context, station rates.StationType) (float64, bool, error) {
	m, ok := f.multipliers[station]
	return m, ok, nil
}

type fakeRoutes struct {
	routes map[string]*route.TravelRoute
}

func (f fakeRoutes) Resolve(_ context.Context, userID, fromCity, toCity string) (*route.TravelRoute, error) {
	r, ok := f.routes[userID+"|"+fromCity+"|"+toCity]
	if !ok {
		return nil, route.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func register(p access.Principal) access.Principal {
	principals[p.ID] = p
	return p
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, fakePrincipals{}, fakeRates{
		roleRates: map[role.Role]float64{
			role.Trainee:  300,
			role.Junior:   400,
			role.Senior:   500,
			role.TeamLead: 600,
		},
		multipliers: map[rates.StationType]float64{
			rates.StationNormal:     1.00,
			rates.StationOutstation: 1.25,
			rates.StationExStation:  1.10,
		},
	}, fakeRoutes{
		routes: map[string]*route.TravelRoute{
			"u-senior|Colombo|Kandy": {
				ID: "r1", UserID: "u-senior", FromCity: "Colombo", ToCity: "Kandy",
				Distance: 115.5, Amount: 2500, Active: true,
			},
		},
	})
	svc.Clock = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }
	return svc
}

func resetPrincipals() {
	principals = map[string]access.Principal{}
}

func TestSubmitDailyUsesRoleRate(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	d, err := svc.SubmitDaily(context.Background(), actor, DailySubmission{
		Date: time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC), Remarks: "field visit",
	})
	if err != nil {
		t.Fatalf("SubmitDaily: %v", err)
	}
	if d.Amount != 500 {
		t.Fatalf("amount = %v, want 500", d.Amount)
	}
	if d.Status != StatusPending {
		t.Fatalf("status = %s, want PENDING", d.Status)
	}
	if d.Source != SourceManual {
		t.Fatalf("source = %s, want MANUAL", d.Source)
	}
	if d.Date.Hour() != 0 {
		t.Fatalf("date not truncated: %v", d.Date)
	}
}

func TestSubmitDailyRejectsAdmins(t *testing.T) {
	resetPrincipals()
	svc := newTestService(newFakeStore())
	admin := register(access.Principal{ID: "u-admin", Role: role.Admin, HeadquartersID: "hq1"})

	if _, err := svc.SubmitDaily(context.Background(), admin, DailySubmission{Date: time.Now()}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin submit error = %v, want ErrForbidden", err)
	}
	if _, err := svc.SubmitTravel(context.Background(), admin, TravelSubmission{Date: time.Now()}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin travel submit error = %v, want ErrForbidden", err)
	}
}

func TestSubmitDailyWithoutRate(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	svc.Rates = fakeRates{roleRates: map[role.Role]float64{}}
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	if _, err := svc.SubmitDaily(context.Background(), actor, DailySubmission{Date: time.Now()}); !errors.Is(err, ErrRateNotConfigured) {
		t.Fatalf("error = %v, want ErrRateNotConfigured", err)
	}
	if len(store.daily) != 0 {
		t.Fatalf("rejected submission persisted %d records", len(store.daily))
	}
}

func TestSubmitTravelUnknownRoute(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	_, err := svc.SubmitTravel(context.Background(), actor, TravelSubmission{
		Date: time.Now(), FromCity: "Colombo", ToCity: "Galle",
	})
	if !errors.Is(err, ErrRouteNotConfigured) {
		t.Fatalf("error = %v, want ErrRouteNotConfigured", err)
	}
	if len(store.travel) != 0 || len(store.daily) != 0 {
		t.Fatal("failed submission persisted records")
	}
}

func TestSubmitTravelCopiesRouteAndDerivesDaily(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	tr, err := svc.SubmitTravel(context.Background(), actor, TravelSubmission{
		Date:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		FromCity:    "Colombo",
		ToCity:      "Kandy",
		TravelMode:  "BUS",
		StationType: rates.StationOutstation,
	})
	if err != nil {
		t.Fatalf("SubmitTravel: %v", err)
	}
	if tr.Distance != 115.5 || tr.Amount != 2500 {
		t.Fatalf("route values not copied: distance=%v amount=%v", tr.Distance, tr.Amount)
	}

	if len(store.daily) != 1 {
		t.Fatalf("derived daily count = %d, want 1", len(store.daily))
	}
	for _, d := range store.daily {
		if d.Amount != 625.00 {
			t.Fatalf("derived amount = %v, want 625.00", d.Amount)
		}
		if d.Source != SourceTravel {
			t.Fatalf("derived source = %s, want TRAVEL_ALLOWANCE", d.Source)
		}
		if d.Status != StatusPending {
			t.Fatalf("derived status = %s, want PENDING", d.Status)
		}
		if d.Remarks != "Auto-generated for OUTSTATION travel" {
			t.Fatalf("derived remarks = %q", d.Remarks)
		}
	}
}

func TestDerivedDailyReplacedNotDuplicated(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	tr, err := svc.SubmitTravel(context.Background(), actor, TravelSubmission{
		Date: day, FromCity: "Colombo", ToCity: "Kandy",
		TravelMode: "BUS", StationType: rates.StationOutstation,
	})
	if err != nil {
		t.Fatalf("SubmitTravel: %v", err)
	}

	_, err = svc.UpdateTravel(context.Background(), actor, tr.ID, TravelSubmission{
		Date: day, FromCity: "Colombo", ToCity: "Kandy",
		TravelMode: "BUS", StationType: rates.StationExStation,
	})
	if err != nil {
		t.Fatalf("UpdateTravel: %v", err)
	}

	if len(store.daily) != 1 {
		t.Fatalf("daily count after re-derive = %d, want 1", len(store.daily))
	}
	for _, d := range store.daily {
		if d.Amount != 550.00 {
			t.Fatalf("re-derived amount = %v, want 550.00", d.Amount)
		}
		if d.Remarks != "Auto-generated for EX_STATION travel" {
			t.Fatalf("re-derived remarks = %q", d.Remarks)
		}
	}
}

func TestDerivedDailyFollowsDateChange(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	oldDay := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	newDay := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	tr, err := svc.SubmitTravel(context.Background(), actor, TravelSubmission{
		Date: oldDay, FromCity: "Colombo", ToCity: "Kandy",
		TravelMode: "BUS", StationType: rates.StationOutstation,
	})
	if err != nil {
		t.Fatalf("SubmitTravel: %v", err)
	}

	if _, err := svc.UpdateTravel(context.Background(), actor, tr.ID, TravelSubmission{
		Date: newDay, FromCity: "Colombo", ToCity: "Kandy",
		TravelMode: "BUS", StationType: rates.StationOutstation,
	}); err != nil {
		t.Fatalf("UpdateTravel: %v", err)
	}

	if len(store.daily) != 1 {
		t.Fatalf("daily count after date change = %d, want 1", len(store.daily))
	}
	for _, d := range store.daily {
		if !d.Date.Equal(newDay) {
			t.Fatalf("derived date = %v, want %v", d.Date, newDay)
		}
	}
}

func TestDeleteTravelRemovesDerivedDaily(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	tr, err := svc.SubmitTravel(context.Background(), actor, TravelSubmission{
		Date: day, FromCity: "Colombo", ToCity: "Kandy",
		TravelMode: "BUS", StationType: rates.StationOutstation,
	})
	if err != nil {
		t.Fatalf("SubmitTravel: %v", err)
	}
	if len(store.daily) != 1 {
		t.Fatalf("derived daily missing after submit: count = %d", len(store.daily))
	}

	if err := svc.DeleteTravel(context.Background(), actor, tr.ID); err != nil {
		t.Fatalf("DeleteTravel: %v", err)
	}
	if len(store.daily) != 0 {
		t.Fatalf("daily count after travel delete = %d, want 0", len(store.daily))
	}
	if len(store.travel) != 0 {
		t.Fatalf("travel count after delete = %d, want 0", len(store.travel))
	}
}

func TestNormalStationSkipsDerivation(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	actor := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})

	_, err := svc.SubmitTravel(context.Background(), actor, TravelSubmission{
		Date: time.Now(), FromCity: "Colombo", ToCity: "Kandy",
		TravelMode: "BUS", StationType: rates.StationNormal,
	})
	if err != nil {
		t.Fatalf("SubmitTravel: %v", err)
	}
	if len(store.daily) != 0 {
		t.Fatalf("normal station derived %d daily records, want 0", len(store.daily))
	}
}

func TestUpdateAndDeleteRequireOwnerAndPending(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	owner := register(access.Principal{ID: "u-senior", Role: role.Senior, HeadquartersID: "hq1"})
	other := register(access.Principal{ID: "u-other", Role: role.Senior, HeadquartersID: "hq1"})

	d, err := svc.SubmitDaily(context.Background(), owner, DailySubmission{Date: time.Now(), Remarks: "x"})
	if err != nil {
		t.Fatalf("SubmitDaily: %v", err)
	}

	if _, err := svc.UpdateDaily(context.Background(), other, d.ID, DailySubmission{Date: time.Now()}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner update error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteDaily(context.Background(), other, d.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete error = %v, want ErrForbidden", err)
	}

	store.daily[d.ID].Status = StatusApproved
	if _, err := svc.UpdateDaily(context.Background(), owner, d.ID, DailySubmission{Date: time.Now()}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("approved update error = %v, want ErrInvalidState", err)
	}
	if err := svc.DeleteDaily(context.Background(), owner, d.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("approved delete error = %v, want ErrInvalidState", err)
	}
}

func TestDecideLifecycle(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	junior := register(access.Principal{ID: "u-junior", Role: role.Junior, HeadquartersID: "hq1"})
	lead := register(access.Principal{ID: "u-lead", Role: role.TeamLead, HeadquartersID: "hq1"})
	peer := register(access.Principal{ID: "u-peer", Role: role.Junior, HeadquartersID: "hq1"})

	d, err := svc.SubmitDaily(context.Background(), junior, DailySubmission{Date: time.Now()})
	if err != nil {
		t.Fatalf("SubmitDaily: %v", err)
	}

	if err := svc.Decide(context.Background(), lead, KindDaily, d.ID, StatusPending); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("PENDING decision error = %v, want ErrInvalidDecision", err)
	}
	if err := svc.Decide(context.Background(), peer, KindDaily, d.ID, StatusApproved); !errors.Is(err, ErrForbidden) {
		t.Fatalf("peer decision error = %v, want ErrForbidden", err)
	}
	if err := svc.Decide(context.Background(), junior, KindDaily, d.ID, StatusApproved); !errors.Is(err, ErrForbidden) {
		t.Fatalf("self approval error = %v, want ErrForbidden", err)
	}

	if err := svc.Decide(context.Background(), lead, KindDaily, d.ID, StatusApproved); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	got := store.daily[d.ID]
	if got.Status != StatusApproved || got.ApproverID != lead.ID {
		t.Fatalf("after approve: status=%s approver=%s", got.Status, got.ApproverID)
	}

	// Terminal states are final; a second decision fails before authorization.
	if err := svc.Decide(context.Background(), lead, KindDaily, d.ID, StatusRejected); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second decision error = %v, want ErrInvalidState", err)
	}
}

func TestDecideUnknownClaim(t *testing.T) {
	resetPrincipals()
	svc := newTestService(newFakeStore())
	lead := register(access.Principal{ID: "u-lead", Role: role.TeamLead, HeadquartersID: "hq1"})

	if err := svc.Decide(context.Background(), lead, KindDaily, "missing", StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListVisibleScoping(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	senior := register(access.Principal{ID: "u-senior2", Role: role.Senior, HeadquartersID: "hq1"})
	junior := register(access.Principal{ID: "u-junior2", Role: role.Junior, HeadquartersID: "hq1"})
	trainee := register(access.Principal{ID: "u-trainee", Role: role.Trainee, HeadquartersID: "hq1"})
	peer := register(access.Principal{ID: "u-peer2", Role: role.Senior, HeadquartersID: "hq1"})
	remote := register(access.Principal{ID: "u-remote", Role: role.Junior, HeadquartersID: "hq2"})

	for _, p := range []access.Principal{senior, junior, trainee, peer, remote} {
		if _, err := svc.SubmitDaily(context.Background(), p, DailySubmission{Date: time.Now()}); err != nil {
			t.Fatalf("SubmitDaily(%s): %v", p.ID, err)
		}
	}

	out, err := svc.ListVisible(context.Background(), senior, Filter{Kind: KindDaily})
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	seen := map[string]bool{}
	for _, d := range out.Daily {
		seen[d.UserID] = true
	}
	for _, want := range []string{"u-senior2", "u-junior2", "u-trainee"} {
		if !seen[want] {
			t.Errorf("senior list missing %s", want)
		}
	}
	if seen["u-peer2"] {
		t.Error("senior list includes same-rank peer")
	}
	if seen["u-remote"] {
		t.Error("senior list includes other headquarters")
	}

	// Trainees see nothing but their own claims.
	out, err = svc.ListVisible(context.Background(), trainee, Filter{Kind: KindDaily})
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(out.Daily) != 1 || out.Daily[0].UserID != trainee.ID {
		t.Fatalf("trainee sees %d records, want only own", len(out.Daily))
	}
}

func TestGetDailyVisibility(t *testing.T) {
	resetPrincipals()
	store := newFakeStore()
	svc := newTestService(store)
	junior := register(access.Principal{ID: "u-junior3", Role: role.Junior, HeadquartersID: "hq1"})
	trainee := register(access.Principal{ID: "u-trainee3", Role: role.Trainee, HeadquartersID: "hq1"})

	d, err := svc.SubmitDaily(context.Background(), junior, DailySubmission{Date: time.Now()})
	if err != nil {
		t.Fatalf("SubmitDaily: %v", err)
	}
	if _, err := svc.GetDaily(context.Background(), trainee, d.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("trainee read error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetDaily(context.Background(), junior, d.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
}
