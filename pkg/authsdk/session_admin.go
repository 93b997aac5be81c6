package authsdk

import (
	"context"
	"net/http"
)

// Administrative operations. The session's active role must resolve to the
// service's configured admin role or these calls fail with forbidden.

// CreateRole creates a role.
func (s *Session) CreateRole(ctx context.Context, req RoleRequest) (*Role, error) {
	var out Role
	if err := s.do(ctx, http.MethodPost, "/v1/roles", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Roles lists all roles.
func (s *Session) Roles(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := s.do(ctx, http.MethodGet, "/v1/roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRole updates a role's name or description.
func (s *Session) UpdateRole(ctx context.Context, roleID string, req RoleRequest) (*Role, error) {
	var out Role
	if err := s.do(ctx, http.MethodPut, "/v1/roles/"+roleID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRole removes an unused role and its menu grants.
func (s *Session) DeleteRole(ctx context.Context, roleID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/roles/"+roleID, nil, nil)
}

// CreateMenu creates a menu node.
func (s *Session) CreateMenu(ctx context.Context, req MenuRequest) (*Menu, error) {
	var out Menu
	if err := s.do(ctx, http.MethodPost, "/v1/menus", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllMenus lists every menu regardless of role grants.
func (s *Session) AllMenus(ctx context.Context) ([]Menu, error) {
	var out []Menu
	if err := s.do(ctx, http.MethodGet, "/v1/menus", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMenu updates a menu node.
func (s *Session) UpdateMenu(ctx context.Context, menuID string, req MenuRequest) (*Menu, error) {
	var out Menu
	if err := s.do(ctx, http.MethodPut, "/v1/menus/"+menuID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMenu removes a childless menu and its role grants.
func (s *Session) DeleteMenu(ctx context.Context, menuID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/menus/"+menuID, nil, nil)
}

// AssignRole links a role to a user. The link starts inactive.
func (s *Session) AssignRole(ctx context.Context, userID, roleID string) error {
	return s.do(ctx, http.MethodPost, "/v1/user-roles",
		AssignRoleRequest{UserID: userID, RoleID: roleID}, nil)
}

// UserRoles lists a user's role assignments.
func (s *Session) UserRoles(ctx context.Context, userID string) ([]RoleAssignment, error) {
	var out []RoleAssignment
	if err := s.do(ctx, http.MethodGet, "/v1/user-roles/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeRole removes an inactive role link from a user.
func (s *Session) RevokeRole(ctx context.Context, userID, roleID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/user-roles/"+userID+"/"+roleID, nil, nil)
}

// AssignMenu grants a menu to a role.
func (s *Session) AssignMenu(ctx context.Context, roleID, menuID string) error {
	return s.do(ctx, http.MethodPost, "/v1/role-menus",
		AssignMenuRequest{RoleID: roleID, MenuID: menuID}, nil)
}

// RoleMenus lists the menus granted to a role.
func (s *Session) RoleMenus(ctx context.Context, roleID string) ([]MenuEntry, error) {
	var out []MenuEntry
	if err := s.do(ctx, http.MethodGet, "/v1/role-menus/"+roleID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeMenu removes a menu grant from a role.
func (s *Session) RevokeMenu(ctx context.Context, roleID, menuID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/role-menus/"+roleID+"/"+menuID, nil, nil)
}

// Users lists all non-deleted accounts.
func (s *Session) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.do(ctx, http.MethodGet, "/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User fetches one account by ID.
func (s *Session) User(ctx context.Context, userID string) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodGet, "/v1/users/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser updates another user's account.
func (s *Session) UpdateUser(ctx context.Context, userID string, req AdminUpdateUserRequest) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodPut, "/v1/users/"+userID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateUser soft-deletes an account.
func (s *Session) DeactivateUser(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/users/"+userID, nil, nil)
}

// PurgeUser permanently removes an account and its links.
func (s *Session) PurgeUser(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/users/"+userID+"/hard", nil, nil)
}
