package user

import (
	"time"

	"ams/internal/domain/access"
	"ams/internal/domain/role"
)

type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FullName           string    `json:"fullName"`
	Role               role.Role `json:"role"`
	DepartmentID       string    `json:"departmentId"`
	HeadquartersID     string    `json:"headquartersId"`
	ReportingManagerID string    `json:"reportingManagerId,omitempty"`
	Active             bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Principal projects the user onto the authorization engine's identity tuple.
func (u User) Principal() access.Principal {
	return access.Principal{ID: u.ID, Role: u.Role, HeadquartersID: u.HeadquartersID}
}

type CreateInput struct {
	Username           string
	PasswordHash       string
	Email              string
	FullName           string
	Role               role.Role
	DepartmentID       string
	HeadquartersID     string
	ReportingManagerID string
}

type UpdateInput struct {
	Email              string
	FullName           string
	Role               role.Role
	DepartmentID       string
	HeadquartersID     string
	ReportingManagerID string
	Active             bool
}

type ListFilter struct {
	Search         string
	Role           role.Role
	DepartmentID   string
	HeadquartersID string
	Active         *bool
}

// HierarchyNode is one row of the reporting tree, root managers first.
type HierarchyNode struct {
	ID       string    `json:"id"`
	FullName string    `json:"fullName"`
	Role     role.Role `json:"role"`
	Level    int       `json:"level"`
	Path     string    `json:"path"`
}
