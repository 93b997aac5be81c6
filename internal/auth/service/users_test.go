package service

import (
	"context"
	"testing"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "a@example.com")

	username := "ada"
	prefs := domain.Preferences{Theme: "dark", FontSize: "lg", FontFamily: "mono", ColorScheme: "solar"}

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileParams{Username: &username, Preferences: &prefs})
	require.NoError(t, err)
	require.Equal(t, "ada", updated.Username)
	require.Equal(t, prefs, updated.Preferences)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", got.Username)
	require.Equal(t, "dark", got.Preferences.Theme)

	// Nil fields leave current values alone.
	again, err := svc.UpdateProfile(ctx, user.ID, ProfileParams{})
	require.NoError(t, err)
	require.Equal(t, "ada", again.Username)
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}
	auth := newAuthService(t, st)
	a := registerUser(t, auth, "a@example.com")
	b := registerUser(t, auth, "b@example.com")

	name := "taken"
	_, err := svc.UpdateProfile(ctx, a.ID, ProfileParams{Username: &name})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, b.ID, ProfileParams{Username: &name})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAdminUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}
	auth := newAuthService(t, st)
	admin := registerUser(t, auth, "admin@example.com")
	target := registerUser(t, auth, "target@example.com")

	t.Run("rejects self", func(t *testing.T) {
		_, err := svc.AdminUpdate(ctx, admin.ID, admin.ID, AdminUserParams{})
		require.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("updates fields", func(t *testing.T) {
		email := "Target2@Example.com"
		enabled := false

		got, err := svc.AdminUpdate(ctx, admin.ID, target.ID, AdminUserParams{
			Email:   &email,
			Enabled: &enabled,
		})
		require.NoError(t, err)
		require.Equal(t, "target2@example.com", got.Email)
		require.False(t, got.Enabled)

		stored, err := st.Users().GetUserByID(ctx, target.ID)
		require.NoError(t, err)
		require.Equal(t, "target2@example.com", stored.Email)
		require.False(t, stored.Enabled)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		email := "admin@example.com"
		_, err := svc.AdminUpdate(ctx, admin.ID, target.ID, AdminUserParams{Email: &email})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}
	auth := newAuthService(t, st)
	twofa := &TwoFAService{Store: st, Issuer: "Flixtify"}
	seedRole(t, st, "USER")
	admin := registerUser(t, auth, "admin@example.com")
	target := registerUser(t, auth, "target@example.com")

	enrollment, err := twofa.EnrollTOTP(ctx, target.ID)
	require.NoError(t, err)

	res, err := auth.Login(ctx, LoginParams{Email: "target@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.SoftDelete(ctx, admin.ID, admin.ID), ErrSelfTarget)
	require.NoError(t, svc.SoftDelete(ctx, admin.ID, target.ID))

	// Flags flip, methods and sessions disappear, listing hides the row.
	stored, err := st.Users().GetUserByID(ctx, target.ID)
	require.NoError(t, err)
	require.True(t, stored.Deleted)
	require.False(t, stored.Enabled)

	_, err = st.TwoFAMethods().GetMethod(ctx, enrollment.MethodID, target.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = auth.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, admin.ID, users[0].ID)

	// Login is blocked for the deactivated account.
	_, err = auth.Login(ctx, LoginParams{Email: "target@example.com", Password: "correct horse battery"})
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}
	auth := newAuthService(t, st)
	role := seedRole(t, st, "USER")
	admin := registerUser(t, auth, "admin@example.com")
	target := registerUser(t, auth, "target@example.com")

	res, err := auth.Login(ctx, LoginParams{Email: "target@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.HardDelete(ctx, admin.ID, admin.ID), ErrSelfTarget)
	require.NoError(t, svc.HardDelete(ctx, admin.ID, target.ID))

	_, err = st.Users().GetUserByID(ctx, target.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UserRoles().GetLink(ctx, target.ID, role.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = auth.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)

	require.ErrorIs(t, svc.HardDelete(ctx, admin.ID, target.ID), store.ErrNotFound)
}
