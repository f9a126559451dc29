package role

import (
	"errors"
	"testing"
)

func TestRanksAreTotallyOrdered(t *testing.T) {
	ladder := All()
	prev := -1
	for _, r := range ladder {
		rank, err := Rank(r)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", r, err)
		}
		if rank <= prev {
			t.Fatalf("rank for %s (%d) not above previous (%d)", r, rank, prev)
		}
		prev = rank
	}
}

func TestParseRejectsUnknownTag(t *testing.T) {
	if _, err := Parse("INTERN"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := Rank(Role("??")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSubordinateSets(t *testing.T) {
	cases := []struct {
		role Role
		want map[Role]bool
	}{
		{Trainee, map[Role]bool{}},
		{Junior, map[Role]bool{}},
		{Senior, map[Role]bool{Junior: true, Trainee: true}},
		{TeamLead, map[Role]bool{Senior: true, Junior: true, Trainee: true}},
	}
	for _, tc := range cases {
		subs := Subordinates(tc.role)
		if len(subs) != len(tc.want) {
			t.Fatalf("%s: expected %d subordinate roles, got %v", tc.role, len(tc.want), subs)
		}
		for _, sub := range subs {
			if !tc.want[sub] {
				t.Fatalf("%s: unexpected subordinate %s", tc.role, sub)
			}
		}
	}

	for _, top := range []Role{DepartmentHead, Admin, SuperAdmin} {
		if len(Subordinates(top)) != len(All()) {
			t.Fatalf("%s should supervise every role", top)
		}
		for _, target := range All() {
			if !Supervises(top, target) {
				t.Fatalf("%s should supervise %s", top, target)
			}
		}
	}
}

func TestSupervisesRejectsInvalidTags(t *testing.T) {
	if Supervises(Role("NOPE"), Trainee) {
		t.Fatal("unknown supervisor must not supervise anyone")
	}
	if Supervises(SuperAdmin, Role("NOPE")) {
		t.Fatal("unknown target must not be supervisable")
	}
}

func TestIsAtLeast(t *testing.T) {
	if !SuperAdmin.IsAtLeast(Admin) {
		t.Fatal("SUPER_ADMIN outranks ADMIN")
	}
	if Junior.IsAtLeast(Senior) {
		t.Fatal("JUNIOR does not outrank SENIOR")
	}
	if Role("NOPE").IsAtLeast(Trainee) {
		t.Fatal("unknown role has no rank")
	}
}
