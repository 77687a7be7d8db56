package domain

import "fmt"

// Role роль вызывающего пользователя
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
)

// ParseRole validates a raw role string. Empty input defaults to customer.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleCustomer, nil
	}
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleManager:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Actor is the authenticated caller of an operation.
// Staff actors carry the resource they work as; salon-wide listings are
// narrowed to that resource.
type Actor struct {
	UserID     int64
	Role       Role
	ResourceID *int64
}

// IsManager reports whether the actor manages the salon.
func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}

// IsStaff reports whether the actor is a staff member.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}
