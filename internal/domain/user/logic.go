package user

import (
	"errors"
	"fmt"

	"ams/internal/domain/role"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrSelfManager     = errors.New("user cannot be their own reporting manager")
	ErrInvalidPairing  = errors.New("invalid reporting manager for role")
	ErrManagerInactive = errors.New("reporting manager not found or inactive")
)

// ValidateManagerAssignment enforces the reporting rule at creation and
// update time: field roles must report to someone entitled to supervise
// them, and top-tier roles report to nobody below DEPARTMENT_HEAD.
// An empty manager is allowed only for roles that carry supervisory
// authority themselves.
func ValidateManagerAssignment(userRole, managerRole role.Role, hasManager bool) error {
	if !userRole.Valid() {
		return fmt.Errorf("%w: %q", role.ErrInvalidRole, string(userRole))
	}
	if !hasManager {
		if userRole.IsAtLeast(role.TeamLead) || userRole == role.Senior {
			return nil
		}
		return fmt.Errorf("%w: %s requires a reporting manager", ErrInvalidPairing, userRole)
	}
	if !managerRole.Valid() {
		return fmt.Errorf("%w: %q", role.ErrInvalidRole, string(managerRole))
	}
	if !role.Supervises(managerRole, userRole) {
		return fmt.Errorf("%w: %s cannot report to %s", ErrInvalidPairing, userRole, managerRole)
	}
	return nil
}
