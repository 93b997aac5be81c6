package service

import (
	"context"
	"testing"
	"time"

	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/cryptox"
	"github.com/flixtify/rolegate/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-links default role active", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		role := seedRole(t, st, "USER")

		user := registerUser(t, auth, "a@example.com")

		link, err := st.UserRoles().GetActiveLink(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, role.ID, link.RoleID)
	})

	t.Run("no default role means no links", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)

		user := registerUser(t, auth, "b@example.com")

		assignments, err := st.UserRoles().ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Empty(t, assignments)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)

		registerUser(t, auth, "dup@example.com")
		_, err := auth.Register(ctx, RegisterParams{Email: "dup@example.com", Password: "long enough pw"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("validates input", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)

		_, err := auth.Register(ctx, RegisterParams{Email: "not-an-email", Password: "long enough pw"})
		require.ErrorIs(t, err, ErrValidation)

		_, err = auth.Register(ctx, RegisterParams{Email: "c@example.com", Password: "short"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("email is lowercased", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)

		user, err := auth.Register(ctx, RegisterParams{Email: "MiXeD@Example.COM", Password: "long enough pw"})
		require.NoError(t, err)
		require.Equal(t, "mixed@example.com", user.Email)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with active role", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		role := seedRole(t, st, "USER")
		registerUser(t, auth, "a@example.com")

		res, err := auth.Login(ctx, LoginParams{
			Email:     "a@example.com",
			Password:  "correct horse battery",
			UserAgent: "test-agent",
			IP:        "127.0.0.1",
		})
		require.NoError(t, err)
		require.Equal(t, "USER", res.User.ActiveRole)
		require.Equal(t, []string{"USER"}, res.User.Roles)
		require.NotEmpty(t, res.Tokens.AccessToken)
		require.NotEmpty(t, res.Tokens.RefreshToken)

		claims, err := auth.Verifier.Verify(res.Tokens.AccessToken)
		require.NoError(t, err)
		require.Equal(t, role.ID, claims.ActiveRoleID)
		require.Equal(t, jwtx.TokenUseAccess, claims.TokenUse)

		// Refresh session is persisted by fingerprint with metadata.
		row, err := st.RefreshTokens().GetRefreshTokenByHash(ctx,
			cryptox.FingerprintToken(res.Tokens.RefreshToken))
		require.NoError(t, err)
		require.Equal(t, "test-agent", row.UserAgent)
		require.Equal(t, "127.0.0.1", row.IP)

		user, err := st.Users().GetUserByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("fails without active role", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		registerUser(t, auth, "norole@example.com") // no USER role seeded

		_, err := auth.Login(ctx, LoginParams{Email: "norole@example.com", Password: "correct horse battery"})
		require.ErrorIs(t, err, ErrNoActiveRole)
	})

	t.Run("unknown email", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)

		_, err := auth.Login(ctx, LoginParams{Email: "ghost@example.com", Password: "whatever pw"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		seedRole(t, st, "USER")
		registerUser(t, auth, "a@example.com")

		_, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "wrong password"})
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("disabled account", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		seedRole(t, st, "USER")
		user := registerUser(t, auth, "a@example.com")
		require.NoError(t, st.Users().SetEnabled(ctx, user.ID, false))

		_, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
		require.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestLoginWithTOTP(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	twofa := &TwoFAService{Store: st, Issuer: "Flixtify"}
	seedRole(t, st, "USER")
	user := registerUser(t, auth, "a@example.com")

	enrollment, err := twofa.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, twofa.VerifyTOTP(ctx, user.ID, enrollment.MethodID, code))

	base := LoginParams{Email: "a@example.com", Password: "correct horse battery"}

	t.Run("missing code", func(t *testing.T) {
		_, err := auth.Login(ctx, base)
		require.ErrorIs(t, err, ErrOTPRequired)
	})

	t.Run("wrong code", func(t *testing.T) {
		p := base
		p.OTPCode = "000000"
		_, err := auth.Login(ctx, p)
		require.ErrorIs(t, err, ErrOTPInvalid)
	})

	t.Run("correct code", func(t *testing.T) {
		p := base
		p.OTPCode, err = totp.GenerateCode(enrollment.Secret, time.Now().UTC())
		require.NoError(t, err)

		res, err := auth.Login(ctx, p)
		require.NoError(t, err)
		require.NotEmpty(t, res.Tokens.AccessToken)
	})
}

func TestLoginTOTPPrecedesRoleCheck(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	twofa := &TwoFAService{Store: st, Issuer: "Flixtify"}
	user := registerUser(t, auth, "norole@example.com") // no USER role seeded

	enrollment, err := twofa.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, twofa.VerifyTOTP(ctx, user.ID, enrollment.MethodID, code))

	base := LoginParams{Email: "norole@example.com", Password: "correct horse battery"}

	t.Run("missing code is challenged first", func(t *testing.T) {
		// The caller must not learn about role assignments before
		// presenting the second factor.
		_, err := auth.Login(ctx, base)
		require.ErrorIs(t, err, ErrOTPRequired)
	})

	t.Run("role check still applies after the code", func(t *testing.T) {
		p := base
		p.OTPCode, err = totp.GenerateCode(enrollment.Secret, time.Now().UTC())
		require.NoError(t, err)

		_, err = auth.Login(ctx, p)
		require.ErrorIs(t, err, ErrNoActiveRole)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a new access token", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		role := seedRole(t, st, "USER")
		registerUser(t, auth, "a@example.com")

		res, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
		require.NoError(t, err)

		pair, err := auth.Refresh(ctx, res.Tokens.RefreshToken)
		require.NoError(t, err)

		claims, err := auth.Verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, role.ID, claims.ActiveRoleID)
	})

	t.Run("keeps the role embedded at issue time", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		role := seedRole(t, st, "USER")
		editor := seedRole(t, st, "EDITOR")
		user := registerUser(t, auth, "a@example.com")

		res, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
		require.NoError(t, err)

		assign := &AssignmentService{Store: st}
		require.NoError(t, assign.AssignRoleToUser(ctx, user.ID, editor.ID))
		_, err = auth.SwitchActiveRole(ctx, user.ID, editor.ID)
		require.NoError(t, err)

		// The refresh token is signed evidence of the session's role at
		// issue time; switching does not rewrite outstanding sessions.
		pair, err := auth.Refresh(ctx, res.Tokens.RefreshToken)
		require.NoError(t, err)

		claims, err := auth.Verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, role.ID, claims.ActiveRoleID)
	})

	t.Run("rejects revoked token", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		seedRole(t, st, "USER")
		registerUser(t, auth, "a@example.com")

		res, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
		require.NoError(t, err)

		require.NoError(t, auth.Logout(ctx, res.Tokens.RefreshToken))
		_, err = auth.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrRefreshInvalid)

		// Logout stays idempotent.
		require.NoError(t, auth.Logout(ctx, res.Tokens.RefreshToken))
	})

	t.Run("rejects access token on the refresh path", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		seedRole(t, st, "USER")
		user := registerUser(t, auth, "a@example.com")

		res, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
		require.NoError(t, err)

		// Plant a row keyed by the access token's fingerprint to get past
		// the storage check; the "use" claim must still reject it.
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, sessionRowFor(user.ID, res.Tokens.AccessToken)))

		_, err = auth.Refresh(ctx, res.Tokens.AccessToken)
		require.ErrorIs(t, err, ErrRefreshInvalid)
	})

	t.Run("expired session is rejected and reaped", func(t *testing.T) {
		st := newTestStore(t)
		auth := newAuthService(t, st)
		auth.RefreshTTL = -time.Hour // issue already-expired sessions
		seedRole(t, st, "USER")
		registerUser(t, auth, "a@example.com")

		res, err := auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
		require.NoError(t, err)

		_, err = auth.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrRefreshInvalid)

		_, err = st.RefreshTokens().GetRefreshTokenByHash(ctx,
			cryptox.FingerprintToken(res.Tokens.RefreshToken))
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSwitchActiveRole(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	seedRole(t, st, "USER")
	editor := seedRole(t, st, "EDITOR")
	user := registerUser(t, auth, "a@example.com")

	t.Run("rejects unassigned role", func(t *testing.T) {
		_, err := auth.SwitchActiveRole(ctx, user.ID, editor.ID)
		require.ErrorIs(t, err, ErrRoleNotAssigned)
	})

	assign := &AssignmentService{Store: st}
	require.NoError(t, assign.AssignRoleToUser(ctx, user.ID, editor.ID))

	t.Run("moves the single active link", func(t *testing.T) {
		pair, err := auth.SwitchActiveRole(ctx, user.ID, editor.ID)
		require.NoError(t, err)

		require.Equal(t, 1, countActiveRoles(t, st, user.ID))

		link, err := st.UserRoles().GetActiveLink(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, editor.ID, link.RoleID)

		claims, err := auth.Verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, editor.ID, claims.ActiveRoleID)
	})
}
