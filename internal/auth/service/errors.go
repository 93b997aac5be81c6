package service

import "errors"

// Sentinel errors the HTTP layer maps onto the response taxonomy with
// errors.Is. Store errors (ErrNotFound, ErrAlreadyExists) pass through
// unwrapped where no translation is needed.
var (
	// ErrValidation marks malformed or rule-violating input (400).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPassword is a failed password check during login (400).
	ErrInvalidPassword = errors.New("invalid password")

	// ErrAccountDisabled rejects logins and requests for disabled users (403).
	ErrAccountDisabled = errors.New("account disabled")

	// ErrNoActiveRole rejects logins for users with no active role link (403).
	ErrNoActiveRole = errors.New("no active role assigned")

	// ErrOTPRequired is returned when 2FA is enabled and no code came (401).
	ErrOTPRequired = errors.New("one-time code required")

	// ErrOTPInvalid is a failed one-time code check (401).
	ErrOTPInvalid = errors.New("invalid one-time code")

	// ErrRefreshInvalid covers every unusable refresh token: unknown,
	// expired, bad signature, wrong use (401).
	ErrRefreshInvalid = errors.New("invalid refresh token")

	// ErrRoleNotAssigned rejects switching to a role the user lacks (403).
	ErrRoleNotAssigned = errors.New("role not assigned to user")

	// ErrActiveRoleRevoke rejects revoking the currently active role (400).
	ErrActiveRoleRevoke = errors.New("cannot revoke the active role, switch roles first")

	// ErrDuplicateAssignment marks an already-existing link (400).
	ErrDuplicateAssignment = errors.New("assignment already exists")

	// ErrRoleInUse blocks deleting a role users still hold (400).
	ErrRoleInUse = errors.New("role is assigned to users")

	// ErrMenuHasChildren blocks deleting a menu with child nodes (400).
	ErrMenuHasChildren = errors.New("menu has child menus")

	// ErrMenuCycle rejects a parent change that would loop the tree (400).
	ErrMenuCycle = errors.New("menu parent would create a cycle")

	// ErrSelfTarget blocks administrative actions on the caller's own
	// account where that would be destructive (400).
	ErrSelfTarget = errors.New("operation not allowed on own account")

	// ErrMethodNotVerified blocks activating an unverified 2FA method (400).
	ErrMethodNotVerified = errors.New("method not verified")
)
