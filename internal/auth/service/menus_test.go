package service

import (
	"context"
	"testing"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMenuCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MenuService{Store: st}

	t.Run("creates root and child", func(t *testing.T) {
		root, err := svc.Create(ctx, MenuParams{Name: "Reports", Path: "/reports", Type: domain.MenuTypeMenu})
		require.NoError(t, err)

		child, err := svc.Create(ctx, MenuParams{
			Name: "Monthly", Path: "/reports/monthly", Type: domain.MenuTypeSubmenu, ParentID: &root.ID,
		})
		require.NoError(t, err)
		require.Equal(t, root.ID, *child.ParentID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := svc.Create(ctx, MenuParams{Name: "X", Path: "/x", Type: domain.MenuTypeMenu})
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(ctx, MenuParams{Name: "No path", Path: " ", Type: domain.MenuTypeMenu})
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(ctx, MenuParams{Name: "Bad type", Path: "/bad", Type: "widget"})
		require.ErrorIs(t, err, ErrValidation)

		missing := "no-such-menu"
		_, err = svc.Create(ctx, MenuParams{Name: "Orphan", Path: "/orphan", Type: domain.MenuTypeMenu, ParentID: &missing})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate path conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, MenuParams{Name: "Reports again", Path: "/reports", Type: domain.MenuTypeMenu})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("path is lowercased", func(t *testing.T) {
		menu, err := svc.Create(ctx, MenuParams{Name: "Mixed", Path: "/MiXeD", Type: domain.MenuTypeMenu})
		require.NoError(t, err)
		require.Equal(t, "/mixed", menu.Path)
	})
}

func TestMenuDanglingParentIsNotConflict(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	// Writing directly to the store with a dangling parent trips the foreign
	// key constraint. That is not a duplicate; it must not surface as
	// ErrAlreadyExists.
	missing := "no-such-menu"
	err := st.Menus().CreateMenu(ctx, domain.Menu{
		ID:       idx.New().String(),
		Name:     "Orphan",
		Path:     "/orphan",
		Type:     domain.MenuTypeMenu,
		ParentID: &missing,
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)
}

func TestMenuUpdateCycleCheck(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MenuService{Store: st}

	// a -> b -> c chain
	a, err := svc.Create(ctx, MenuParams{Name: "A node", Path: "/a", Type: domain.MenuTypeMenu})
	require.NoError(t, err)
	b, err := svc.Create(ctx, MenuParams{Name: "B node", Path: "/b", Type: domain.MenuTypeSubmenu, ParentID: &a.ID})
	require.NoError(t, err)
	c, err := svc.Create(ctx, MenuParams{Name: "C node", Path: "/c", Type: domain.MenuTypeSubmenu, ParentID: &b.ID})
	require.NoError(t, err)

	t.Run("rejects self-parent", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, MenuParams{Name: "A node", Path: "/a", Type: domain.MenuTypeMenu, ParentID: &a.ID})
		require.ErrorIs(t, err, ErrMenuCycle)
	})

	t.Run("rejects deep cycle", func(t *testing.T) {
		// Re-parenting A under C would make A its own ancestor.
		_, err := svc.Update(ctx, a.ID, MenuParams{Name: "A node", Path: "/a", Type: domain.MenuTypeMenu, ParentID: &c.ID})
		require.ErrorIs(t, err, ErrMenuCycle)
	})

	t.Run("allows legal re-parent", func(t *testing.T) {
		got, err := svc.Update(ctx, c.ID, MenuParams{Name: "C node", Path: "/c", Type: domain.MenuTypeSubmenu, ParentID: &a.ID})
		require.NoError(t, err)
		require.Equal(t, a.ID, *got.ParentID)
	})
}

func TestMenuDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked with children", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MenuService{Store: st}
		parent := seedMenu(t, st, "Parent", "/parent", nil)
		seedMenu(t, st, "Child", "/parent/child", &parent.ID)

		require.ErrorIs(t, svc.Delete(ctx, parent.ID), ErrMenuHasChildren)

		_, err := st.Menus().GetMenuByID(ctx, parent.ID)
		require.NoError(t, err)
	})

	t.Run("childless delete removes grants", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MenuService{Store: st}
		role := seedRole(t, st, "VIEWER")
		menu := seedMenu(t, st, "Doomed", "/doomed", nil)
		keep := seedMenu(t, st, "Kept", "/kept", nil)
		require.NoError(t, st.RoleMenus().CreateLink(ctx, domain.RoleMenu{RoleID: role.ID, MenuID: menu.ID}))
		require.NoError(t, st.RoleMenus().CreateLink(ctx, domain.RoleMenu{RoleID: role.ID, MenuID: keep.ID}))

		require.NoError(t, svc.Delete(ctx, menu.ID))

		_, err := st.RoleMenus().GetLink(ctx, role.ID, menu.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		entries, err := st.RoleMenus().ListMenusByRole(ctx, role.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, keep.ID, entries[0].ID)
	})

	t.Run("missing menu", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MenuService{Store: st}
		require.ErrorIs(t, svc.Delete(ctx, "nope"), store.ErrNotFound)
	})
}
