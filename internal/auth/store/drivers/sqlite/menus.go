package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
)

type menusRepo struct {
	db dbtx
}

func scanMenu(row rowScanner) (domain.Menu, error) {
	var (
		m      domain.Menu
		parent sql.NullString
	)
	err := row.Scan(&m.ID, &m.Name, &m.Icon, &m.Path, &m.Type, &parent, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Menu{}, err
	}
	m.ParentID = mapNullStringPtr(parent)
	return m, nil
}

func (r *menusRepo) GetMenuByID(ctx context.Context, id string) (domain.Menu, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, icon, path, type, parent_id, created_at, updated_at FROM menus WHERE id = ?`, id)
	m, err := scanMenu(row)
	if err != nil {
		return domain.Menu{}, mapNotFound(err)
	}
	return m, nil
}

func (r *menusRepo) ListMenus(ctx context.Context) ([]domain.Menu, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon, path, type, parent_id, created_at, updated_at FROM menus ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []domain.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

func (r *menusRepo) CreateMenu(ctx context.Context, m domain.Menu) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menus (id, name, icon, path, type, parent_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Icon, m.Path, string(m.Type), mapOptionalString(m.ParentID), now, now)
	return mapConstraint(err)
}

func (r *menusRepo) UpdateMenu(ctx context.Context, m domain.Menu) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menus SET name = ?, icon = ?, path = ?, type = ?, parent_id = ?, updated_at = ?
		 WHERE id = ?`,
		m.Name, m.Icon, m.Path, string(m.Type), mapOptionalString(m.ParentID), time.Now().UTC(), m.ID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *menusRepo) DeleteMenu(ctx context.Context, menuID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, menuID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *menusRepo) CountChildren(ctx context.Context, menuID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menus WHERE parent_id = ?`, menuID).Scan(&n)
	return n, err
}
