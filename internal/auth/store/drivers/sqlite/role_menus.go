package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
)

type roleMenusRepo struct {
	db dbtx
}

func (r *roleMenusRepo) GetLink(ctx context.Context, roleID, menuID string) (domain.RoleMenu, error) {
	var l domain.RoleMenu
	err := r.db.QueryRowContext(ctx,
		`SELECT role_id, menu_id, created_at FROM role_menus WHERE role_id = ? AND menu_id = ?`,
		roleID, menuID).Scan(&l.RoleID, &l.MenuID, &l.CreatedAt)
	if err != nil {
		return domain.RoleMenu{}, mapNotFound(err)
	}
	return l, nil
}

// ListMenusByRole resolves each grant to its menu display fields. The inner
// join silently drops grants whose menu row no longer exists.
func (r *roleMenusRepo) ListMenusByRole(ctx context.Context, roleID string) ([]domain.MenuEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.name, m.path, m.icon, m.type, m.parent_id
		 FROM role_menus rm
		 JOIN menus m ON m.id = rm.menu_id
		 WHERE rm.role_id = ?
		 ORDER BY m.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MenuEntry
	for rows.Next() {
		var (
			e      domain.MenuEntry
			parent sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &e.Icon, &e.Type, &parent); err != nil {
			return nil, err
		}
		e.Parent = mapNullStringPtr(parent)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *roleMenusRepo) CreateLink(ctx context.Context, l domain.RoleMenu) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO role_menus (role_id, menu_id, created_at) VALUES (?, ?, ?)`,
		l.RoleID, l.MenuID, time.Now().UTC())
	return mapConstraint(err)
}

func (r *roleMenusRepo) DeleteLink(ctx context.Context, roleID, menuID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM role_menus WHERE role_id = ? AND menu_id = ?`, roleID, menuID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *roleMenusRepo) DeleteAllForRole(ctx context.Context, roleID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM role_menus WHERE role_id = ?`, roleID)
	return err
}

func (r *roleMenusRepo) DeleteAllForMenu(ctx context.Context, menuID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM role_menus WHERE menu_id = ?`, menuID)
	return err
}
