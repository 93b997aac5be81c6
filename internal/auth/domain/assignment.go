package domain

import "time"

// UserRole links a user to a role they hold. At most one link per user has
// IsActive set; the invariant is enforced procedurally inside a transaction
// (deactivate all, then activate one), not by the schema.
type UserRole struct {
	UserID    string
	RoleID    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleMenu grants a role visibility of a menu node. Plain grant, no ordering.
type RoleMenu struct {
	RoleID    string
	MenuID    string
	CreatedAt time.Time
}

// RoleAssignment is the per-user listing view of a UserRole link joined with
// its role's display fields.
type RoleAssignment struct {
	RoleID      string `json:"role_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}
