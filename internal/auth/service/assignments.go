package service

import (
	"context"
	"errors"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
)

// AssignmentService manages the user-role and role-menu link tables.
type AssignmentService struct {
	Store store.Store
}

// AssignRoleToUser links a role to a user. New links start inactive; the
// user activates them via role switching.
func (s *AssignmentService) AssignRoleToUser(ctx context.Context, userID, roleID string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return err
	}

	err := s.Store.UserRoles().CreateLink(ctx, domain.UserRole{
		UserID: userID,
		RoleID: roleID,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrDuplicateAssignment
	}
	return err
}

// RevokeRoleFromUser removes an inactive link. Revoking the active role is
// rejected so a logged-in session never loses its role from under it.
func (s *AssignmentService) RevokeRoleFromUser(ctx context.Context, userID, roleID string) error {
	link, err := s.Store.UserRoles().GetLink(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if link.IsActive {
		return ErrActiveRoleRevoke
	}
	return s.Store.UserRoles().DeleteLink(ctx, userID, roleID)
}

// RolesForUser lists a user's role links with the role display fields.
func (s *AssignmentService) RolesForUser(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.Store.UserRoles().ListByUser(ctx, userID)
}

// AssignMenuToRole grants a menu to a role.
func (s *AssignmentService) AssignMenuToRole(ctx context.Context, roleID, menuID string) error {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.Store.Menus().GetMenuByID(ctx, menuID); err != nil {
		return err
	}

	err := s.Store.RoleMenus().CreateLink(ctx, domain.RoleMenu{
		RoleID: roleID,
		MenuID: menuID,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrDuplicateAssignment
	}
	return err
}

// RevokeMenuFromRole removes a menu grant.
func (s *AssignmentService) RevokeMenuFromRole(ctx context.Context, roleID, menuID string) error {
	if _, err := s.Store.RoleMenus().GetLink(ctx, roleID, menuID); err != nil {
		return err
	}
	return s.Store.RoleMenus().DeleteLink(ctx, roleID, menuID)
}

// MenusForRole lists the menus granted to a role.
func (s *AssignmentService) MenusForRole(ctx context.Context, roleID string) ([]domain.MenuEntry, error) {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.Store.RoleMenus().ListMenusByRole(ctx, roleID)
}
