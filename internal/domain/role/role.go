package role

import (
	"errors"
	"fmt"
)

// Role is a tag on the fixed organizational ladder. The ladder is ordered
// from least to most authority; ADMIN and SUPER_ADMIN share the top tier.
type Role string

const (
	Trainee        Role = "TRAINEE"
	Junior         Role = "JUNIOR"
	Senior         Role = "SENIOR"
	TeamLead       Role = "TEAM_LEAD"
	DepartmentHead Role = "DEPARTMENT_HEAD"
	Admin          Role = "ADMIN"
	SuperAdmin     Role = "SUPER_ADMIN"
)

var ErrInvalidRole = errors.New("invalid role")

var ranks = map[Role]int{
	Trainee:        0,
	Junior:         1,
	Senior:         2,
	TeamLead:       3,
	DepartmentHead: 4,
	Admin:          5,
	SuperAdmin:     6,
}

// subordinates captures exactly which roles a role may supervise.
// DEPARTMENT_HEAD and above supervise everyone and are handled in
// Supervises directly rather than enumerated here.
var subordinates = map[Role][]Role{
	TeamLead: {Senior, Junior, Trainee},
	Senior:   {Junior, Trainee},
}

func Parse(value string) (Role, error) {
	r := Role(value)
	if _, ok := ranks[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := ranks[r]
	return ok
}

// Rank returns the position of r on the ladder.
func Rank(r Role) (int, error) {
	rank, ok := ranks[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return rank, nil
}

// IsAtLeast reports whether r sits at or above threshold on the ladder.
// Unknown tags on either side yield false.
func (r Role) IsAtLeast(threshold Role) bool {
	rr, ok := ranks[r]
	if !ok {
		return false
	}
	tr, ok := ranks[threshold]
	if !ok {
		return false
	}
	return rr >= tr
}

// Subordinates returns the fixed set of roles r may supervise. The slice is
// a copy; callers may mutate it freely.
func Subordinates(r Role) []Role {
	if r.IsAtLeast(DepartmentHead) {
		return All()
	}
	subs, ok := subordinates[r]
	if !ok {
		return nil
	}
	out := make([]Role, len(subs))
	copy(out, subs)
	return out
}

// Supervises reports whether supervisor may supervise target.
func Supervises(supervisor, target Role) bool {
	if !supervisor.Valid() || !target.Valid() {
		return false
	}
	if supervisor.IsAtLeast(DepartmentHead) {
		return true
	}
	for _, sub := range subordinates[supervisor] {
		if sub == target {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r is in the top administrative tier.
func (r Role) IsAdmin() bool {
	return r == Admin || r == SuperAdmin
}

// IsManagement reports whether r carries any supervisory authority.
func (r Role) IsManagement() bool {
	return r.IsAtLeast(TeamLead) || r == Senior
}

// All returns every role, lowest rank first.
func All() []Role {
	return []Role{Trainee, Junior, Senior, TeamLead, DepartmentHead, Admin, SuperAdmin}
}
