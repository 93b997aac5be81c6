package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/idx"
)

// RoleService is the administrative CRUD surface for roles.
type RoleService struct {
	Store store.Store
}

func validateRoleName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < domain.RoleNameMinLen || len(name) > domain.RoleNameMaxLen {
		return "", fmt.Errorf("%w: role name must be %d-%d characters",
			ErrValidation, domain.RoleNameMinLen, domain.RoleNameMaxLen)
	}
	return name, nil
}

// Create adds a role. The name must be unique; duplicates surface as
// store.ErrAlreadyExists.
func (s *RoleService) Create(ctx context.Context, name, description string) (domain.Role, error) {
	name, err := validateRoleName(name)
	if err != nil {
		return domain.Role{}, err
	}

	role := domain.Role{
		ID:          idx.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

// Get fetches a role by ID.
func (s *RoleService) Get(ctx context.Context, roleID string) (domain.Role, error) {
	return s.Store.Roles().GetRoleByID(ctx, roleID)
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx)
}

// Update renames or re-describes a role.
func (s *RoleService) Update(ctx context.Context, roleID, name, description string) (domain.Role, error) {
	name, err := validateRoleName(name)
	if err != nil {
		return domain.Role{}, err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, err
	}

	role.Name = name
	role.Description = strings.TrimSpace(description)
	if err := s.Store.Roles().UpdateRole(ctx, roleID, role.Name, role.Description); err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

// Delete removes a role and its menu grants. A role still held by any user
// cannot be deleted; the caller must revoke those assignments first. The
// grant cleanup and the role delete run in one transaction so a failure
// never leaves grants pointing at a deleted role.
func (s *RoleService) Delete(ctx context.Context, roleID string) error {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return err
	}

	n, err := s.Store.UserRoles().CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d assignment(s)", ErrRoleInUse, n)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RoleMenus().DeleteAllForRole(ctx, roleID); err != nil {
			return err
		}
		return tx.Roles().DeleteRole(ctx, roleID)
	})
}
