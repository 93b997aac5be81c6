package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
)

const userColumns = `id, username, email, password_hash, enabled, deleted, twofa_enabled,
	pref_theme, pref_font_size, pref_font_family, pref_color_scheme,
	last_login_at, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		username  sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &username, &u.Email, &u.PasswordHash, &u.Enabled, &u.Deleted, &u.TwoFAEnabled,
		&u.Preferences.Theme, &u.Preferences.FontSize, &u.Preferences.FontFamily, &u.Preferences.ColorScheme,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Username = mapNullString(username)
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, enabled, deleted, twofa_enabled,
			pref_theme, pref_font_size, pref_font_family, pref_color_scheme, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?, ?)`,
		u.ID, mapStringNull(u.Username), u.Email, u.PasswordHash, u.Enabled,
		u.Preferences.Theme, u.Preferences.FontSize, u.Preferences.FontFamily, u.Preferences.ColorScheme,
		now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted = 0 ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID string, username string, prefs domain.Preferences) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, pref_theme = ?, pref_font_size = ?,
			pref_font_family = ?, pref_color_scheme = ?, updated_at = ?
		 WHERE id = ? AND deleted = 0`,
		mapStringNull(username), prefs.Theme, prefs.FontSize, prefs.FontFamily, prefs.ColorScheme,
		time.Now().UTC(), userID,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		email, time.Now().UTC(), userID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *usersRepo) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) SetTwoFAEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET twofa_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		now, now, userID)
	return err
}

func (r *usersRepo) SoftDeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted = 1, enabled = 0, updated_at = ? WHERE id = ? AND deleted = 0`,
		time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) HardDeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
