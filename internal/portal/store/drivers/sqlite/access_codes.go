package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/silveracademy/familyportal/internal/portal/domain"
	"github.com/silveracademy/familyportal/internal/portal/store"
)

type accessCodesRepo struct {
	q dbtx
}

const accessCodeColumns = `id, student_id, code_hash, code_last4, plain_code_encrypted,
	max_links, status, expires_at, revoked_at, created_at, updated_at`

func (r *accessCodesRepo) CreateAccessCode(ctx context.Context, c domain.AccessCode) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO access_codes (
			id, student_id, code_hash, code_last4, plain_code_encrypted,
			max_links, status, expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.StudentID, c.CodeHash, c.CodeLast4, c.PlainCodeEncrypted,
		c.MaxLinks, c.Status, mapOptionalTime(c.ExpiresAt), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *accessCodesRepo) GetAccessCodeByID(ctx context.Context, id string) (domain.AccessCode, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+accessCodeColumns+`
		FROM access_codes
		WHERE id = ?`, id)
	return scanAccessCode(row)
}

func (r *accessCodesRepo) ListActiveAccessCodes(ctx context.Context, now time.Time) ([]domain.AccessCode, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+accessCodeColumns+`
		FROM access_codes
		WHERE status = ? AND (expires_at IS NULL OR expires_at > ?)`,
		domain.StatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []domain.AccessCode
	for rows.Next() {
		c, err := scanAccessCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *accessCodesRepo) GetActiveAccessCodeForStudent(
	ctx context.Context,
	studentID string,
	now time.Time,
) (domain.AccessCode, error) {
	// Newest created_at wins when more than one active code exists.
	row := r.q.QueryRowContext(ctx, `
		SELECT `+accessCodeColumns+`
		FROM access_codes
		WHERE student_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		studentID, domain.StatusActive, now,
	)
	return scanAccessCode(row)
}

func (r *accessCodesRepo) RevokeActiveAccessCodes(
	ctx context.Context,
	studentID string,
	revokedAt time.Time,
) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE access_codes
		SET status = ?, revoked_at = ?, updated_at = ?
		WHERE student_id = ? AND status = ?`,
		domain.StatusRevoked, revokedAt, revokedAt, studentID, domain.StatusActive,
	)
	return err
}

func (r *accessCodesRepo) UpdateAccessCode(ctx context.Context, c domain.AccessCode) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE access_codes
		SET max_links = ?, status = ?, expires_at = ?, revoked_at = ?, updated_at = ?
		WHERE id = ?`,
		c.MaxLinks, c.Status, mapOptionalTime(c.ExpiresAt), mapOptionalTime(c.RevokedAt),
		c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccessCode(row rowScanner) (domain.AccessCode, error) {
	var (
		c         domain.AccessCode
		expiresAt sql.NullTime
		revokedAt sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.StudentID, &c.CodeHash, &c.CodeLast4, &c.PlainCodeEncrypted,
		&c.MaxLinks, &c.Status, &expiresAt, &revokedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.AccessCode{}, mapNotFound(err)
	}
	c.ExpiresAt = mapNullTimePtr(expiresAt)
	c.RevokedAt = mapNullTimePtr(revokedAt)
	return c, nil
}
