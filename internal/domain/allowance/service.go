package allowance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ams/internal/domain/access"
	"ams/internal/domain/rates"
	"ams/internal/domain/route"
)

// Service implements the claim lifecycle: submission, owner-gated edits,
// role-scoped approval, visibility-scoped listing, the travel-derived daily
// allowance rule and the end-of-day sweep. All authorization checks run
// before any write.
type Service struct {
	Store  StoreAPI
	Users  PrincipalStore
	Rates  RateStore
	Routes RouteStore
	// Clock supplies "now" so date-sensitive logic stays deterministic in
	// tests. Defaults to time.Now via NewService.
	Clock func() time.Time
}

func NewService(store StoreAPI, users PrincipalStore, rateStore RateStore, routeStore RouteStore) *Service {
	return &Service{Store: store, Users: users, Rates: rateStore, Routes: routeStore, Clock: time.Now}
}

// SubmitDaily creates a pending daily claim for the actor. The amount comes
// from the role rate table; admins never own claims.
func (s *Service) SubmitDaily(ctx context.Context, actor access.Principal, in DailySubmission) (*DailyAllowance, error) {
	if actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators cannot submit allowances", ErrForbidden)
	}
	amount, ok, err := s.Rates.DailyRateForRole(ctx, actor.Role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRateNotConfigured
	}
	date := in.Date
	if date.IsZero() {
		date = s.Clock()
	}
	d := &DailyAllowance{
		UserID:  actor.ID,
		Date:    dateOnly(date),
		Amount:  amount,
		Status:  StatusPending,
		Source:  SourceManual,
		Remarks: in.Remarks,
	}
	id, err := s.Store.InsertDaily(ctx, d)
	if err != nil {
		return nil, err
	}
	d.ID = id
	return d, nil
}

// UpdateDaily edits an owned pending claim. Only date and remarks are
// caller-controlled; the amount is recomputed from the current role rate.
func (s *Service) UpdateDaily(ctx context.Context, actor access.Principal, id string, in DailySubmission) (*DailyAllowance, error) {
	d, err := s.Store.GetDaily(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != actor.ID {
		return nil, ErrForbidden
	}
	if d.Status != StatusPending {
		return nil, ErrInvalidState
	}
	amount, ok, err := s.Rates.DailyRateForRole(ctx, actor.Role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRateNotConfigured
	}
	d.Date = dateOnly(in.Date)
	d.Remarks = in.Remarks
	d.Amount = amount
	if err := s.Store.UpdateDaily(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDaily(ctx context.Context, actor access.Principal, id string) error {
	d, err := s.Store.GetDaily(ctx, id)
	if err != nil {
		return err
	}
	if d.UserID != actor.ID {
		return ErrForbidden
	}
	if d.Status != StatusPending {
		return ErrInvalidState
	}
	return s.Store.DeleteDaily(ctx, id)
}

// SubmitTravel creates a pending travel claim. The (fromCity, toCity) pair
// must resolve against the owner's configured routes; distance and amount
// are copied from the route record. An eligible station type then derives
// the same-day daily allowance as a best-effort side effect.
func (s *Service) SubmitTravel(ctx context.Context, actor access.Principal, in TravelSubmission) (*TravelAllowance, error) {
	if actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators cannot submit allowances", ErrForbidden)
	}
	r, err := s.Routes.Resolve(ctx, actor.ID, in.FromCity, in.ToCity)
	if errors.Is(err, route.ErrNotFound) {
		return nil, ErrRouteNotConfigured
	}
	if err != nil {
		return nil, err
	}
	t := &TravelAllowance{
		UserID:      actor.ID,
		Date:        dateOnly(in.Date),
		FromCity:    r.FromCity,
		ToCity:      r.ToCity,
		Distance:    r.Distance,
		TravelMode:  in.TravelMode,
		StationType: in.StationType,
		Amount:      r.Amount,
		Status:      StatusPending,
		Remarks:     in.Remarks,
	}
	id, err := s.Store.InsertTravel(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	s.deriveDaily(ctx, actor, t)
	return t, nil
}

// UpdateTravel edits an owned pending travel claim, re-validating the route
// and re-running the derivation for the (possibly new) date.
func (s *Service) UpdateTravel(ctx context.Context, actor access.Principal, id string, in TravelSubmission) (*TravelAllowance, error) {
	t, err := s.Store.GetTravel(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actor.ID {
		return nil, ErrForbidden
	}
	if t.Status != StatusPending {
		return nil, ErrInvalidState
	}
	r, err := s.Routes.Resolve(ctx, actor.ID, in.FromCity, in.ToCity)
	if errors.Is(err, route.ErrNotFound) {
		return nil, ErrRouteNotConfigured
	}
	if err != nil {
		return nil, err
	}
	prevDate := t.Date
	t.Date = dateOnly(in.Date)
	t.FromCity = r.FromCity
	t.ToCity = r.ToCity
	t.Distance = r.Distance
	t.TravelMode = in.TravelMode
	t.StationType = in.StationType
	t.Amount = r.Amount
	t.Remarks = in.Remarks
	if err := s.Store.UpdateTravel(ctx, t); err != nil {
		return nil, err
	}
	if !prevDate.Equal(t.Date) {
		s.dropDerivedDaily(ctx, t.UserID, prevDate)
	}
	s.deriveDaily(ctx, actor, t)
	return t, nil
}

func (s *Service) DeleteTravel(ctx context.Context, actor access.Principal, id string) error {
	t, err := s.Store.GetTravel(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != actor.ID {
		return ErrForbidden
	}
	if t.Status != StatusPending {
		return ErrInvalidState
	}
	if err := s.Store.DeleteTravel(ctx, id); err != nil {
		return err
	}
	s.dropDerivedDaily(ctx, t.UserID, t.Date)
	return nil
}

// Decide moves a pending claim to APPROVED or REJECTED. Terminal states
// never transition again, and the actor must hold approval authority over
// the claim's owner.
func (s *Service) Decide(ctx context.Context, actor access.Principal, kind Kind, id string, decision Status) error {
	if decision != StatusApproved && decision != StatusRejected {
		return ErrInvalidDecision
	}

	var ownerID string
	var status Status
	switch kind {
	case KindDaily:
		d, err := s.Store.GetDaily(ctx, id)
		if err != nil {
			return err
		}
		ownerID, status = d.UserID, d.Status
	case KindTravel:
		t, err := s.Store.GetTravel(ctx, id)
		if err != nil {
			return err
		}
		ownerID, status = t.UserID, t.Status
	default:
		return ErrNotFound
	}

	if !CanTransition(status, decision) {
		return ErrInvalidState
	}
	owner, err := s.Users.Principal(ctx, ownerID)
	if err != nil {
		return err
	}
	if !access.CanApprove(actor, owner) {
		return ErrForbidden
	}

	if kind == KindDaily {
		return s.Store.SetDailyStatus(ctx, id, decision, actor.ID)
	}
	return s.Store.SetTravelStatus(ctx, id, decision, actor.ID)
}

// GetDaily returns a single claim if the actor may view its owner.
func (s *Service) GetDaily(ctx context.Context, actor access.Principal, id string) (*DailyAllowance, error) {
	d, err := s.Store.GetDaily(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkView(ctx, actor, d.UserID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetTravel(ctx context.Context, actor access.Principal, id string) (*TravelAllowance, error) {
	t, err := s.Store.GetTravel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkView(ctx, actor, t.UserID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) checkView(ctx context.Context, actor access.Principal, ownerID string) error {
	if ownerID == actor.ID {
		return nil
	}
	owner, err := s.Users.Principal(ctx, ownerID)
	if err != nil {
		return err
	}
	if !access.CanView(actor, owner) {
		return ErrForbidden
	}
	return nil
}

// ListVisible returns every allowance whose owner the actor may view,
// narrowed by the optional filters. Managers with no subordinates see only
// their own claims.
func (s *Service) ListVisible(ctx context.Context, actor access.Principal, f Filter) (VisibleAllowances, error) {
	scope := access.VisibilityFor(actor)
	var out VisibleAllowances
	if f.Kind == "" || f.Kind == KindDaily {
		daily, err := s.Store.ListDaily(ctx, scope, f)
		if err != nil {
			return VisibleAllowances{}, err
		}
		out.Daily = daily
	}
	if f.Kind == "" || f.Kind == KindTravel {
		travel, err := s.Store.ListTravel(ctx, scope, f)
		if err != nil {
			return VisibleAllowances{}, err
		}
		out.Travel = travel
	}
	return out, nil
}

// dropDerivedDaily removes the travel-derived daily row left at a date the
// claim no longer covers. Best-effort, same as derivation.
func (s *Service) dropDerivedDaily(ctx context.Context, userID string, date time.Time) {
	if err := s.Store.DeleteDerivedDaily(ctx, userID, date); err != nil {
		slog.Warn("derived allowance cleanup failed", "userId", userID, "date", date, "err", err)
	}
}

// deriveDaily applies the travel-derived daily allowance rule. It is
// best-effort: the travel claim has already been persisted and must not be
// rolled back, so every failure here is logged and swallowed.
func (s *Service) deriveDaily(ctx context.Context, owner access.Principal, t *TravelAllowance) {
	if t.StationType == "" || t.StationType == rates.StationNormal {
		return
	}
	base, ok, err := s.Rates.DailyRateForRole(ctx, owner.Role)
	if err != nil || !ok {
		slog.Warn("derived allowance skipped: no role rate",
			"userId", owner.ID, "role", string(owner.Role), "err", err)
		return
	}
	multiplier, ok, err := s.Rates.MultiplierFor(ctx, t.StationType)
	if err != nil || !ok {
		slog.Warn("derived allowance skipped: no station multiplier",
			"userId", owner.ID, "stationType", string(t.StationType), "err", err)
		return
	}
	d := &DailyAllowance{
		UserID:  owner.ID,
		Date:    t.Date,
		Amount:  AdjustedAmount(base, multiplier),
		Status:  StatusPending,
		Source:  SourceTravel,
		Remarks: fmt.Sprintf("Auto-generated for %s travel", t.StationType),
	}
	if _, err := s.Store.ReplaceDerivedDaily(ctx, d); err != nil {
		slog.Warn("derived allowance write failed",
			"userId", owner.ID, "date", t.Date.Format("2006-01-02"), "err", err)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
