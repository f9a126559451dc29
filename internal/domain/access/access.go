// Package access holds the authorization predicates that gate every view
// and approval in the system. Both predicates are pure and total: they are
// evaluated before any mutation, and a false result surfaces as a Forbidden
// error at the call site.
package access

import "ams/internal/domain/role"

// Principal is the minimal identity tuple the predicates operate on. It is
// built from the session claims for the actor and from the stored user row
// for the target; the engine trusts both verbatim.
type Principal struct {
	ID             string
	Role           role.Role
	HeadquartersID string
}

// CanView reports whether actor may see target's profile and allowances.
//
//   - SUPER_ADMIN sees everyone.
//   - ADMIN and DEPARTMENT_HEAD see everyone in their headquarters.
//   - TEAM_LEAD and SENIOR see their subordinate roles in their headquarters.
//   - Everyone sees themselves.
//   - JUNIOR and TRAINEE see nobody else.
func CanView(actor, target Principal) bool {
	if actor.ID != "" && actor.ID == target.ID {
		return true
	}
	switch actor.Role {
	case role.SuperAdmin:
		return true
	case role.Admin, role.DepartmentHead:
		return sameHeadquarters(actor, target)
	case role.TeamLead, role.Senior:
		return sameHeadquarters(actor, target) && role.Supervises(actor.Role, target.Role)
	default:
		return false
	}
}

// CanApprove reports whether actor may decide a claim owned by owner. The
// rule shape matches CanView without the self exception: nobody approves
// their own claim. Admin-owned claims cannot exist (submission rejects
// admin owners), so the predicate does not re-check that case.
func CanApprove(actor, owner Principal) bool {
	if actor.ID != "" && actor.ID == owner.ID {
		return false
	}
	switch actor.Role {
	case role.SuperAdmin:
		return true
	case role.Admin, role.DepartmentHead:
		return sameHeadquarters(actor, owner)
	case role.TeamLead, role.Senior:
		return sameHeadquarters(actor, owner) && role.Supervises(actor.Role, owner.Role)
	default:
		return false
	}
}

func sameHeadquarters(a, b Principal) bool {
	return a.HeadquartersID != "" && a.HeadquartersID == b.HeadquartersID
}

// ScopeKind classifies how far an actor's visibility reaches.
type ScopeKind int

const (
	// ScopeSelf limits queries to rows owned by the actor.
	ScopeSelf ScopeKind = iota
	// ScopeSubordinates covers the actor plus same-headquarters owners
	// holding one of the listed roles.
	ScopeSubordinates
	// ScopeHeadquarters covers every owner in the actor's headquarters.
	ScopeHeadquarters
	// ScopeAll covers everyone.
	ScopeAll
)

// Visibility is the query-side rendering of CanView: stores translate it
// into list filters so "get all visible" agrees row-for-row with the
// predicate.
type Visibility struct {
	Kind           ScopeKind
	SelfID         string
	HeadquartersID string
	Roles          []role.Role
}

// VisibilityFor describes the widest listing scope actor is entitled to.
func VisibilityFor(actor Principal) Visibility {
	switch actor.Role {
	case role.SuperAdmin:
		return Visibility{Kind: ScopeAll, SelfID: actor.ID}
	case role.Admin, role.DepartmentHead:
		return Visibility{Kind: ScopeHeadquarters, SelfID: actor.ID, HeadquartersID: actor.HeadquartersID}
	case role.TeamLead, role.Senior:
		return Visibility{
			Kind:           ScopeSubordinates,
			SelfID:         actor.ID,
			HeadquartersID: actor.HeadquartersID,
			Roles:          role.Subordinates(actor.Role),
		}
	default:
		return Visibility{Kind: ScopeSelf, SelfID: actor.ID}
	}
}

// Covers reports whether a principal falls inside the visibility scope.
// It mirrors the SQL filters the stores build from the same value.
func (v Visibility) Covers(target Principal) bool {
	if target.ID != "" && target.ID == v.SelfID {
		return true
	}
	switch v.Kind {
	case ScopeAll:
		return true
	case ScopeHeadquarters:
		return v.HeadquartersID != "" && target.HeadquartersID == v.HeadquartersID
	case ScopeSubordinates:
		if v.HeadquartersID == "" || target.HeadquartersID != v.HeadquartersID {
			return false
		}
		for _, r := range v.Roles {
			if r == target.Role {
				return true
			}
		}
		return false
	default:
		return false
	}
}
