package sqlite

import (
	"context"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
)

type userRolesRepo struct {
	db dbtx
}

func scanUserRole(row rowScanner) (domain.UserRole, error) {
	var l domain.UserRole
	err := row.Scan(&l.UserID, &l.RoleID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *userRolesRepo) GetLink(ctx context.Context, userID, roleID string) (domain.UserRole, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, role_id, is_active, created_at, updated_at
		 FROM user_roles WHERE user_id = ? AND role_id = ?`, userID, roleID)
	l, err := scanUserRole(row)
	if err != nil {
		return domain.UserRole{}, mapNotFound(err)
	}
	return l, nil
}

func (r *userRolesRepo) GetActiveLink(ctx context.Context, userID string) (domain.UserRole, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, role_id, is_active, created_at, updated_at
		 FROM user_roles WHERE user_id = ? AND is_active = 1`, userID)
	l, err := scanUserRole(row)
	if err != nil {
		return domain.UserRole{}, mapNotFound(err)
	}
	return l, nil
}

func (r *userRolesRepo) ListByUser(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ur.role_id, r.name, r.description, ur.is_active
		 FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = ?
		 ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoleAssignment
	for rows.Next() {
		var a domain.RoleAssignment
		if err := rows.Scan(&a.RoleID, &a.Name, &a.Description, &a.IsActive); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *userRolesRepo) CreateLink(ctx context.Context, l domain.UserRole) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		l.UserID, l.RoleID, l.IsActive, now, now)
	return mapConstraint(err)
}

func (r *userRolesRepo) DeactivateAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_roles SET is_active = 0, updated_at = ? WHERE user_id = ? AND is_active = 1`,
		time.Now().UTC(), userID)
	return err
}

func (r *userRolesRepo) Activate(ctx context.Context, userID, roleID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_roles SET is_active = 1, updated_at = ? WHERE user_id = ? AND role_id = ?`,
		time.Now().UTC(), userID, roleID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *userRolesRepo) DeleteLink(ctx context.Context, userID, roleID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`, userID, roleID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *userRolesRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID)
	return err
}

func (r *userRolesRepo) CountByRole(ctx context.Context, roleID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_roles WHERE role_id = ?`, roleID).Scan(&n)
	return n, err
}
