package service

import (
	"context"
	"testing"
	"time"

	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestEnrollTOTP(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFAService{Store: st, Issuer: "Flixtify"}
	auth := newAuthService(t, st)
	seedRole(t, st, "USER")
	user := registerUser(t, auth, "a@example.com")

	enrollment, err := svc.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.ProvisioningURL, "Flixtify")

	// Enrolling alone changes nothing: unverified, disabled, login stays
	// password-only.
	method, err := st.TwoFAMethods().GetMethod(ctx, enrollment.MethodID, user.ID)
	require.NoError(t, err)
	require.False(t, method.IsVerified)
	require.False(t, method.IsEnabled)

	_, err = auth.Login(ctx, LoginParams{Email: "a@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	_, err = svc.EnrollTOTP(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerifyTOTP(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFAService{Store: st, Issuer: "Flixtify"}
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "a@example.com")

	enrollment, err := svc.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)

	t.Run("wrong code", func(t *testing.T) {
		err := svc.VerifyTOTP(ctx, user.ID, enrollment.MethodID, "000000")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("foreign method", func(t *testing.T) {
		other := registerUser(t, auth, "b@example.com")
		err := svc.VerifyTOTP(ctx, other.ID, enrollment.MethodID, "000000")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("correct code enables", func(t *testing.T) {
		code, err := totp.GenerateCode(enrollment.Secret, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, svc.VerifyTOTP(ctx, user.ID, enrollment.MethodID, code))

		method, err := st.TwoFAMethods().GetMethod(ctx, enrollment.MethodID, user.ID)
		require.NoError(t, err)
		require.True(t, method.IsVerified)
		require.True(t, method.IsEnabled)

		u, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, u.TwoFAEnabled)
	})

	t.Run("verifying another method keeps one enabled", func(t *testing.T) {
		second, err := svc.EnrollTOTP(ctx, user.ID)
		require.NoError(t, err)

		code, err := totp.GenerateCode(second.Secret, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, svc.VerifyTOTP(ctx, user.ID, second.MethodID, code))

		n, err := st.TwoFAMethods().CountEnabled(ctx, user.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}

func TestSetActiveMethod(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFAService{Store: st, Issuer: "Flixtify"}
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "a@example.com")

	first, err := svc.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)
	second, err := svc.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)

	t.Run("unverified method rejected", func(t *testing.T) {
		err := svc.SetActiveMethod(ctx, user.ID, second.MethodID)
		require.ErrorIs(t, err, ErrMethodNotVerified)
	})

	// Verify both, then flip back to the first.
	for _, e := range []string{first.MethodID, second.MethodID} {
		secret := first.Secret
		if e == second.MethodID {
			secret = second.Secret
		}
		code, err := totp.GenerateCode(secret, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, svc.VerifyTOTP(ctx, user.ID, e, code))
	}

	require.NoError(t, svc.SetActiveMethod(ctx, user.ID, first.MethodID))

	method, err := st.TwoFAMethods().GetMethod(ctx, first.MethodID, user.ID)
	require.NoError(t, err)
	require.True(t, method.IsEnabled)

	n, err := st.TwoFAMethods().CountEnabled(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestDeleteMethod(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFAService{Store: st, Issuer: "Flixtify"}
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "a@example.com")

	enrollment, err := svc.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyTOTP(ctx, user.ID, enrollment.MethodID, code))

	require.NoError(t, svc.DeleteMethod(ctx, user.ID, enrollment.MethodID))

	// Deleting the last enabled method clears the account-level flag and
	// the method stays gone from listings.
	u, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, u.TwoFAEnabled)

	methods, err := svc.ListMethods(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, methods)

	require.ErrorIs(t, svc.DeleteMethod(ctx, user.ID, enrollment.MethodID), store.ErrNotFound)
}

func TestListMethodsHidesSecrets(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFAService{Store: st, Issuer: "Flixtify"}
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "a@example.com")

	_, err := svc.EnrollTOTP(ctx, user.ID)
	require.NoError(t, err)

	methods, err := svc.ListMethods(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	require.Empty(t, methods[0].Secret)
}
