package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/cryptox"
	"github.com/flixtify/rolegate/pkg/idx"
	"github.com/flixtify/rolegate/pkg/jwtx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const minPasswordLength = 8

// totpSkewPeriods tolerates clock drift between server and authenticator.
const totpSkewPeriods = 2

// AuthService implements registration, login, token lifecycle and role
// switching.
type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier

	Issuer     string
	Pepper     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// DefaultRoleName is auto-assigned (active) at registration when the
	// role exists. Registration proceeds without it otherwise.
	DefaultRoleName string
}

// RegisterParams are the inputs to Register. Preferences may be nil.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	Preferences *domain.Preferences
}

// LoginParams are the inputs to Login. OTPCode is required only when the
// account has 2FA enabled. UserAgent and IP annotate the stored session.
type LoginParams struct {
	Email     string
	Password  string
	OTPCode   string
	UserAgent string
	IP        string
}

// Register creates an account and, when the default role exists, links it
// as the user's active role so first login succeeds out of the box.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(p.Password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters",
			ErrValidation, minPasswordLength)
	}

	hash, err := cryptox.HashPassword(p.Password, s.Pepper)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	prefs := domain.DefaultPreferences()
	if p.Preferences != nil {
		prefs = *p.Preferences
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     strings.TrimSpace(p.Username),
		Email:        email,
		PasswordHash: hash,
		Enabled:      true,
		Preferences:  prefs,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}

		role, err := tx.Roles().GetRoleByName(ctx, s.DefaultRoleName)
		if errors.Is(err, store.ErrNotFound) {
			return nil // no default role seeded, user starts role-less
		}
		if err != nil {
			return err
		}

		return tx.UserRoles().CreateLink(ctx, domain.UserRole{
			UserID:   user.ID,
			RoleID:   role.ID,
			IsActive: true,
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login authenticates a user and issues an access/refresh token pair bound
// to their active role.
func (s *AuthService) Login(ctx context.Context, p LoginParams) (domain.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return domain.LoginResult{}, err
	}
	if !user.Enabled {
		return domain.LoginResult{}, ErrAccountDisabled
	}

	if err := cryptox.VerifyPassword(p.Password, s.Pepper, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.LoginResult{}, ErrInvalidPassword
		}
		return domain.LoginResult{}, fmt.Errorf("verify password: %w", err)
	}

	// The second factor is challenged before any account state beyond the
	// password is consulted; a caller without the code learns nothing about
	// role assignments.
	if user.TwoFAEnabled {
		if err := s.checkTOTP(ctx, user.ID, p.OTPCode); err != nil {
			return domain.LoginResult{}, err
		}
	}

	// A session always operates under exactly one role. No active role
	// means nothing to bind the token to.
	active, err := s.Store.UserRoles().GetActiveLink(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.LoginResult{}, ErrNoActiveRole
	}
	if err != nil {
		return domain.LoginResult{}, err
	}

	tokens, err := s.issueTokens(ctx, user.ID, active.RoleID, p.UserAgent, p.IP)
	if err != nil {
		return domain.LoginResult{}, err
	}

	if err := s.Store.Users().TouchLastLogin(ctx, user.ID); err != nil {
		return domain.LoginResult{}, fmt.Errorf("touch last login: %w", err)
	}

	summary, err := s.userSummary(ctx, user, active.RoleID)
	if err != nil {
		return domain.LoginResult{}, err
	}

	return domain.LoginResult{Tokens: tokens, User: summary}, nil
}

// Logout revokes the stored refresh session. Revoking a token that is
// already gone is not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	hash := cryptox.FingerprintToken(refreshToken)
	err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// Refresh exchanges a live refresh token for a fresh access token. The new
// access token carries the role embedded at issue time; a role switch after
// issuing does not retroactively update outstanding refresh tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	hash := cryptox.FingerprintToken(refreshToken)

	row, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, ErrRefreshInvalid
	}
	if err != nil {
		return domain.TokenPair{}, err
	}

	if time.Now().UTC().After(row.ExpiresAt) {
		// Expired sessions are reaped on sight, not only by housekeeping.
		if err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, hash); err != nil &&
			!errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, err
		}
		return domain.TokenPair{}, ErrRefreshInvalid
	}

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return domain.TokenPair{}, ErrRefreshInvalid
	}
	if err := claims.ValidateUse(jwtx.TokenUseRefresh); err != nil {
		return domain.TokenPair{}, ErrRefreshInvalid
	}

	access, err := s.signToken(claims.Subject, claims.ActiveRoleID, jwtx.TokenUseAccess, s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// SwitchActiveRole moves the user's single active link to roleID and mints
// an access token bound to it. The deactivate-all-then-activate-one pair
// runs in one transaction so no observable state has two active links.
func (s *AuthService) SwitchActiveRole(ctx context.Context, userID, roleID string) (domain.TokenPair, error) {
	if _, err := s.Store.UserRoles().GetLink(ctx, userID, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrRoleNotAssigned
		}
		return domain.TokenPair{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.UserRoles().DeactivateAll(ctx, userID); err != nil {
			return err
		}
		return tx.UserRoles().Activate(ctx, userID, roleID)
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.signToken(userID, roleID, jwtx.TokenUseAccess, s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, ExpiresIn: s.AccessTTL}, nil
}

// MenusForActiveRole lists the navigation entries granted to the role.
func (s *AuthService) MenusForActiveRole(ctx context.Context, roleID string) ([]domain.MenuEntry, error) {
	return s.Store.RoleMenus().ListMenusByRole(ctx, roleID)
}

func (s *AuthService) checkTOTP(ctx context.Context, userID, code string) error {
	method, err := s.Store.TwoFAMethods().GetEnabledTOTP(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		// Flag set but no usable method; fail closed rather than skip 2FA.
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}

	if code == "" {
		return ErrOTPRequired
	}

	ok, err := totp.ValidateCustom(code, method.Secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      totpSkewPeriods,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return ErrOTPInvalid
	}
	return nil
}

func (s *AuthService) signToken(userID, roleID, use string, ttl time.Duration) (string, error) {
	claims := jwtx.NewClaims(userID, roleID, use, s.Issuer, ttl, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", use, err)
	}
	return token, nil
}

// issueTokens mints the access/refresh pair and persists the refresh
// session by fingerprint so it can be revoked later.
func (s *AuthService) issueTokens(ctx context.Context, userID, roleID, userAgent, ip string) (domain.TokenPair, error) {
	access, err := s.signToken(userID, roleID, jwtx.TokenUseAccess, s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.signToken(userID, roleID, jwtx.TokenUseRefresh, s.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	err = s.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(refresh),
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: time.Now().UTC().Add(s.RefreshTTL),
	})
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("persist refresh session: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

func (s *AuthService) userSummary(ctx context.Context, user domain.User, activeRoleID string) (domain.UserSummary, error) {
	assignments, err := s.Store.UserRoles().ListByUser(ctx, user.ID)
	if err != nil {
		return domain.UserSummary{}, err
	}

	summary := domain.UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    make([]string, 0, len(assignments)),
	}
	for _, a := range assignments {
		summary.Roles = append(summary.Roles, a.Name)
		if a.RoleID == activeRoleID {
			summary.ActiveRole = a.Name
		}
	}
	return summary, nil
}
