package authsdk

import "time"

// Preferences are per-user UI preferences.
type Preferences struct {
	Theme       string `json:"theme"`
	FontSize    string `json:"font_size"`
	FontFamily  string `json:"font_family"`
	ColorScheme string `json:"color_scheme"`
}

// RegisterRequest creates a new account. Username is optional.
type RegisterRequest struct {
	Username    string       `json:"username,omitempty"`
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// LoginRequest authenticates with email and password. OTPCode is required
// when the account has two-factor authentication enabled.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code,omitempty"`
}

// UserSummary is the caller-facing view of an authenticated user.
type UserSummary struct {
	ID         string   `json:"id"`
	Username   string   `json:"username,omitempty"`
	Email      string   `json:"email"`
	ActiveRole string   `json:"active_role"`
	Roles      []string `json:"roles"`
}

// TokenResponse is returned from login, refresh and switch-role.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         *UserSummary `json:"user,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SwitchRoleRequest changes the session's active role.
type SwitchRoleRequest struct {
	RoleID string `json:"role_id"`
}

// MenuEntry is one visible navigation entry for the active role.
type MenuEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Path   string  `json:"path"`
	Icon   string  `json:"icon,omitempty"`
	Type   string  `json:"type"`
	Parent *string `json:"parent"`
}

// Role is a named grant bundle.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RoleRequest creates or updates a role.
type RoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Menu is a navigation node.
type Menu struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon,omitempty"`
	Path     string  `json:"path"`
	Type     string  `json:"type"`
	ParentID *string `json:"parent_id"`
}

// MenuRequest creates or updates a menu.
type MenuRequest struct {
	Name     string  `json:"name"`
	Icon     string  `json:"icon,omitempty"`
	Path     string  `json:"path"`
	Type     string  `json:"type"`
	ParentID *string `json:"parent_id,omitempty"`
}

// AssignRoleRequest links a role to a user.
type AssignRoleRequest struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}

// RoleAssignment is one of a user's role links.
type RoleAssignment struct {
	RoleID      string `json:"role_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// AssignMenuRequest grants a menu to a role.
type AssignMenuRequest struct {
	RoleID string `json:"role_id"`
	MenuID string `json:"menu_id"`
}

// User is the administrative view of an account. It never carries the
// password hash or 2FA secrets.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username,omitempty"`
	Email        string      `json:"email"`
	Enabled      bool        `json:"enabled"`
	TwoFAEnabled bool        `json:"twofa_enabled"`
	Preferences  Preferences `json:"preferences"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// UpdateProfileRequest updates the caller's own mutable fields. Sensitive
// fields are not accepted here.
type UpdateProfileRequest struct {
	Username    *string      `json:"username,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// AdminUpdateUserRequest updates another user's account.
type AdminUpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// TwoFAMethod is a second-factor method without its secret.
type TwoFAMethod struct {
	ID         string    `json:"id"`
	MethodType string    `json:"method_type"`
	IsEnabled  bool      `json:"is_enabled"`
	IsVerified bool      `json:"is_verified"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

// EnrollTOTPResponse carries the provisioning material for a new TOTP
// method. The secret is only ever returned here.
type EnrollTOTPResponse struct {
	MethodID   string `json:"method_id"`
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// VerifyTOTPRequest confirms possession of the enrolled secret.
type VerifyTOTPRequest struct {
	Code string `json:"code"`
}
