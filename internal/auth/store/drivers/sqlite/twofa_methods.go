package sqlite

import (
	"context"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
)

const twoFAColumns = `id, user_id, method_type, secret, is_enabled, is_verified, is_primary, deleted,
	created_at, updated_at`

type twoFAMethodsRepo struct {
	db dbtx
}

func scanTwoFAMethod(row rowScanner) (domain.TwoFAMethod, error) {
	var m domain.TwoFAMethod
	err := row.Scan(
		&m.ID, &m.UserID, &m.MethodType, &m.Secret, &m.IsEnabled, &m.IsVerified, &m.IsPrimary,
		&m.Deleted, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *twoFAMethodsRepo) GetMethod(ctx context.Context, methodID, userID string) (domain.TwoFAMethod, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+twoFAColumns+` FROM twofa_methods
		 WHERE id = ? AND user_id = ? AND deleted = 0`, methodID, userID)
	m, err := scanTwoFAMethod(row)
	if err != nil {
		return domain.TwoFAMethod{}, mapNotFound(err)
	}
	return m, nil
}

func (r *twoFAMethodsRepo) GetEnabledTOTP(ctx context.Context, userID string) (domain.TwoFAMethod, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+twoFAColumns+` FROM twofa_methods
		 WHERE user_id = ? AND method_type = 'TOTP' AND is_enabled = 1 AND is_verified = 1 AND deleted = 0`,
		userID)
	m, err := scanTwoFAMethod(row)
	if err != nil {
		return domain.TwoFAMethod{}, mapNotFound(err)
	}
	return m, nil
}

func (r *twoFAMethodsRepo) ListByUser(ctx context.Context, userID string) ([]domain.TwoFAMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+twoFAColumns+` FROM twofa_methods
		 WHERE user_id = ? AND deleted = 0 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.TwoFAMethod
	for rows.Next() {
		m, err := scanTwoFAMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r *twoFAMethodsRepo) CreateMethod(ctx context.Context, m domain.TwoFAMethod) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO twofa_methods (id, user_id, method_type, secret, is_enabled, is_verified,
			is_primary, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		m.ID, m.UserID, string(m.MethodType), m.Secret, m.IsEnabled, m.IsVerified, m.IsPrimary,
		now, now)
	return mapConstraint(err)
}

func (r *twoFAMethodsRepo) MarkVerified(ctx context.Context, methodID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE twofa_methods SET is_verified = 1, is_enabled = 1, updated_at = ?
		 WHERE id = ? AND deleted = 0`, time.Now().UTC(), methodID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *twoFAMethodsRepo) DisableAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE twofa_methods SET is_enabled = 0, updated_at = ? WHERE user_id = ? AND deleted = 0`,
		time.Now().UTC(), userID)
	return err
}

func (r *twoFAMethodsRepo) Enable(ctx context.Context, methodID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE twofa_methods SET is_enabled = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		time.Now().UTC(), methodID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *twoFAMethodsRepo) SoftDeleteMethod(ctx context.Context, methodID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE twofa_methods SET deleted = 1, is_enabled = 0, updated_at = ?
		 WHERE id = ? AND deleted = 0`, time.Now().UTC(), methodID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *twoFAMethodsRepo) SoftDeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE twofa_methods SET deleted = 1, is_enabled = 0, updated_at = ?
		 WHERE user_id = ? AND deleted = 0`, time.Now().UTC(), userID)
	return err
}

func (r *twoFAMethodsRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM twofa_methods WHERE user_id = ?`, userID)
	return err
}

func (r *twoFAMethodsRepo) CountEnabled(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM twofa_methods WHERE user_id = ? AND is_enabled = 1 AND deleted = 0`,
		userID).Scan(&n)
	return n, err
}
