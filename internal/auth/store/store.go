package store

import (
	"context"
	"errors"

	"github.com/flixtify/rolegate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable, and make
// it hard to accidentally nest transactions.
type Store interface {
	Users() Users
	Roles() Roles
	Menus() Menus
	UserRoles() UserRoles
	RoleMenus() RoleMenus
	RefreshTokens() RefreshTokens
	TwoFAMethods() TwoFAMethods

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. Lookups are exact; the service
	// lowercases emails before calling.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists on a unique-constraint hit (email/username).
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns non-deleted users ordered by creation date.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateProfile mutates username and preferences, bumping updated_at.
	UpdateProfile(ctx context.Context, userID string, username string, prefs domain.Preferences) error

	// UpdateEmail changes the address. Returns ErrAlreadyExists when taken.
	UpdateEmail(ctx context.Context, userID, email string) error

	// SetEnabled flips the enablement flag.
	SetEnabled(ctx context.Context, userID string, enabled bool) error

	// SetTwoFAEnabled flips the user-level 2FA flag.
	SetTwoFAEnabled(ctx context.Context, userID string, enabled bool) error

	// TouchLastLogin stamps last_login_at with the current time.
	TouchLastLogin(ctx context.Context, userID string) error

	// SoftDeleteUser marks deleted=1, enabled=0. The row survives.
	SoftDeleteUser(ctx context.Context, userID string) error

	// HardDeleteUser removes the row. Link cleanup is the caller's job.
	HardDeleteUser(ctx context.Context, userID string) error
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName is used for seed lookups (default/admin role names).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	ListRoles(ctx context.Context) ([]domain.Role, error)

	// CreateRole returns ErrAlreadyExists when the name is taken.
	CreateRole(ctx context.Context, r domain.Role) error

	UpdateRole(ctx context.Context, roleID, name, description string) error

	// DeleteRole removes the role row only; the service checks references
	// and clears role_menus links first.
	DeleteRole(ctx context.Context, roleID string) error
}

type Menus interface {
	GetMenuByID(ctx context.Context, id string) (domain.Menu, error)

	// ListMenus returns every node ordered by name.
	ListMenus(ctx context.Context) ([]domain.Menu, error)

	// CreateMenu returns ErrAlreadyExists when the path is taken.
	CreateMenu(ctx context.Context, m domain.Menu) error

	UpdateMenu(ctx context.Context, m domain.Menu) error

	DeleteMenu(ctx context.Context, menuID string) error

	// CountChildren reports how many nodes list menuID as parent.
	CountChildren(ctx context.Context, menuID string) (int64, error)
}

type UserRoles interface {
	// GetLink fetches one user-role link.
	GetLink(ctx context.Context, userID, roleID string) (domain.UserRole, error)

	// GetActiveLink returns the link with is_active set for the user.
	GetActiveLink(ctx context.Context, userID string) (domain.UserRole, error)

	// ListByUser returns all links for a user joined with role fields.
	ListByUser(ctx context.Context, userID string) ([]domain.RoleAssignment, error)

	// CreateLink returns ErrAlreadyExists for a duplicate (user, role) pair.
	CreateLink(ctx context.Context, l domain.UserRole) error

	// DeactivateAll clears is_active on every link the user holds.
	DeactivateAll(ctx context.Context, userID string) error

	// Activate sets is_active on one link.
	Activate(ctx context.Context, userID, roleID string) error

	DeleteLink(ctx context.Context, userID, roleID string) error

	// DeleteAllForUser removes every link a user holds (hard user delete).
	DeleteAllForUser(ctx context.Context, userID string) error

	// CountByRole reports how many users hold the role.
	CountByRole(ctx context.Context, roleID string) (int64, error)
}

type RoleMenus interface {
	GetLink(ctx context.Context, roleID, menuID string) (domain.RoleMenu, error)

	// ListMenusByRole dereferences each grant to its menu. Grants whose menu
	// no longer exists are dropped by the join.
	ListMenusByRole(ctx context.Context, roleID string) ([]domain.MenuEntry, error)

	// CreateLink returns ErrAlreadyExists for a duplicate (role, menu) pair.
	CreateLink(ctx context.Context, l domain.RoleMenu) error

	DeleteLink(ctx context.Context, roleID, menuID string) error

	// DeleteAllForRole clears every grant referencing the role (role delete).
	DeleteAllForRole(ctx context.Context, roleID string) error

	// DeleteAllForMenu clears every grant referencing the menu (menu delete).
	DeleteAllForMenu(ctx context.Context, menuID string) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the row by the token's fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// DeleteRefreshToken removes one row by fingerprint (logout, expiry).
	DeleteRefreshToken(ctx context.Context, hash string) error

	// DeleteAllForUser removes every session a user holds (hard delete).
	DeleteAllForUser(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type TwoFAMethods interface {
	// GetMethod fetches a non-deleted method owned by userID.
	GetMethod(ctx context.Context, methodID, userID string) (domain.TwoFAMethod, error)

	// GetEnabledTOTP returns the user's enabled, verified TOTP method.
	GetEnabledTOTP(ctx context.Context, userID string) (domain.TwoFAMethod, error)

	// ListByUser returns non-deleted methods for a user.
	ListByUser(ctx context.Context, userID string) ([]domain.TwoFAMethod, error)

	CreateMethod(ctx context.Context, m domain.TwoFAMethod) error

	// MarkVerified flips is_verified and is_enabled on one method.
	MarkVerified(ctx context.Context, methodID string) error

	// DisableAll clears is_enabled on every method the user owns.
	DisableAll(ctx context.Context, userID string) error

	// Enable sets is_enabled on one method.
	Enable(ctx context.Context, methodID string) error

	// SoftDeleteMethod marks deleted=1, is_enabled=0.
	SoftDeleteMethod(ctx context.Context, methodID string) error

	// SoftDeleteAllForUser cascades a user soft-delete onto their methods.
	SoftDeleteAllForUser(ctx context.Context, userID string) error

	// DeleteAllForUser removes the rows entirely (hard user delete).
	DeleteAllForUser(ctx context.Context, userID string) error

	// CountEnabled reports non-deleted, enabled methods for a user.
	CountEnabled(ctx context.Context, userID string) (int64, error)
}
