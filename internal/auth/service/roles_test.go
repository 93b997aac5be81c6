package service

import (
	"context"
	"strings"
	"testing"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestRoleCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &RoleService{Store: st}

	t.Run("creates and lists", func(t *testing.T) {
		role, err := svc.Create(ctx, "EDITOR", "can edit content")
		require.NoError(t, err)
		require.NotEmpty(t, role.ID)

		roles, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 1)
		require.Equal(t, "EDITOR", roles[0].Name)
	})

	t.Run("rejects bad names", func(t *testing.T) {
		_, err := svc.Create(ctx, "X", "")
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(ctx, strings.Repeat("a", domain.RoleNameMaxLen+1), "")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, "EDITOR", "")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestRoleUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &RoleService{Store: st}

	role, err := svc.Create(ctx, "EDITOR", "")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, role.ID, "REVIEWER", "reviews content")
	require.NoError(t, err)
	require.Equal(t, "REVIEWER", updated.Name)

	got, err := svc.Get(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, "REVIEWER", got.Name)
	require.Equal(t, "reviews content", got.Description)

	_, err = svc.Update(ctx, "missing-id", "VALID", "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRoleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while assigned", func(t *testing.T) {
		st := newTestStore(t)
		svc := &RoleService{Store: st}
		auth := newAuthService(t, st)
		role := seedRole(t, st, "USER")
		menu := seedMenu(t, st, "Home", "/home", nil)
		require.NoError(t, st.RoleMenus().CreateLink(ctx, domain.RoleMenu{RoleID: role.ID, MenuID: menu.ID}))

		user := registerUser(t, auth, "a@example.com")

		err := svc.Delete(ctx, role.ID)
		require.ErrorIs(t, err, ErrRoleInUse)

		// Role, grant and assignment all survive the failed delete.
		_, err = st.Roles().GetRoleByID(ctx, role.ID)
		require.NoError(t, err)
		_, err = st.RoleMenus().GetLink(ctx, role.ID, menu.ID)
		require.NoError(t, err)
		_, err = st.UserRoles().GetLink(ctx, user.ID, role.ID)
		require.NoError(t, err)
	})

	t.Run("removes grants with the role", func(t *testing.T) {
		st := newTestStore(t)
		svc := &RoleService{Store: st}
		role := seedRole(t, st, "UNUSED")
		menu := seedMenu(t, st, "Home", "/home", nil)
		require.NoError(t, st.RoleMenus().CreateLink(ctx, domain.RoleMenu{RoleID: role.ID, MenuID: menu.ID}))

		require.NoError(t, svc.Delete(ctx, role.ID))

		_, err := st.Roles().GetRoleByID(ctx, role.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.RoleMenus().GetLink(ctx, role.ID, menu.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing role", func(t *testing.T) {
		st := newTestStore(t)
		svc := &RoleService{Store: st}
		require.ErrorIs(t, svc.Delete(ctx, "nope"), store.ErrNotFound)
	})
}
