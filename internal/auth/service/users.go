package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
)

// UserService covers self-service profile operations and the administrative
// account surface.
type UserService struct {
	Store store.Store
}

// ProfileParams are the caller-mutable fields of their own account. Nil
// fields are left untouched. Email, password and flags are deliberately not
// part of this surface.
type ProfileParams struct {
	Username    *string
	Preferences *domain.Preferences
}

// AdminUserParams are the fields an administrator may change on another
// account. Nil fields are left untouched.
type AdminUserParams struct {
	Username *string
	Email    *string
	Enabled  *bool
}

// List returns all non-deleted accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// Get fetches one account by ID.
func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateProfile updates the caller's own username and preferences.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p ProfileParams) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if p.Username != nil {
		user.Username = strings.TrimSpace(*p.Username)
	}
	if p.Preferences != nil {
		user.Preferences = *p.Preferences
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, user.Username, user.Preferences); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// AdminUpdate changes another user's account. Administrators cannot target
// themselves here; self changes go through UpdateProfile so an admin can't
// accidentally lock themselves out.
func (s *UserService) AdminUpdate(ctx context.Context, actorID, targetID string, p AdminUserParams) (domain.User, error) {
	if actorID == targetID {
		return domain.User{}, ErrSelfTarget
	}

	user, err := s.Store.Users().GetUserByID(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}

	if p.Username != nil {
		user.Username = strings.TrimSpace(*p.Username)
		if err := s.Store.Users().UpdateProfile(ctx, targetID, user.Username, user.Preferences); err != nil {
			return domain.User{}, err
		}
	}

	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if email == "" || !strings.Contains(email, "@") {
			return domain.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		if err := s.Store.Users().UpdateEmail(ctx, targetID, email); err != nil {
			return domain.User{}, err
		}
		user.Email = email
	}

	if p.Enabled != nil {
		if err := s.Store.Users().SetEnabled(ctx, targetID, *p.Enabled); err != nil {
			return domain.User{}, err
		}
		user.Enabled = *p.Enabled
	}

	return user, nil
}

// SoftDelete deactivates an account: the row survives flagged deleted and
// disabled, its 2FA methods are soft-deleted and its sessions revoked.
func (s *UserService) SoftDelete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfTarget
	}
	if _, err := s.Store.Users().GetUserByID(ctx, targetID); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SoftDeleteUser(ctx, targetID); err != nil {
			return err
		}
		if err := tx.TwoFAMethods().SoftDeleteAllForUser(ctx, targetID); err != nil {
			return err
		}
		return tx.RefreshTokens().DeleteAllForUser(ctx, targetID)
	})
}

// HardDelete permanently removes an account. Links go first inside the
// transaction so a failure never leaves them pointing at a missing user.
func (s *UserService) HardDelete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfTarget
	}
	if _, err := s.Store.Users().GetUserByID(ctx, targetID); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.UserRoles().DeleteAllForUser(ctx, targetID); err != nil {
			return err
		}
		if err := tx.RefreshTokens().DeleteAllForUser(ctx, targetID); err != nil {
			return err
		}
		if err := tx.TwoFAMethods().DeleteAllForUser(ctx, targetID); err != nil {
			return err
		}
		return tx.Users().HardDeleteUser(ctx, targetID)
	})
}
