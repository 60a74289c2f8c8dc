package sqlite

import (
	"context"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

type linksRepo struct {
	q dbtx
}

func (r *linksRepo) AttachParent(ctx context.Context, studentID, parentID string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO parent_links (student_id, parent_id) VALUES (?, ?)
		ON CONFLICT (student_id, parent_id) DO NOTHING`,
		studentID, parentID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *linksRepo) CountParentLinks(ctx context.Context, studentID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM parent_links WHERE student_id = ?`, studentID,
	).Scan(&count)
	return count, err
}

func (r *linksRepo) ListLinkedParents(ctx context.Context, studentID string) ([]domain.Parent, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.email, p.name, p.password_hash, p.created_at
		FROM parent_links l
		JOIN parents p ON p.id = l.parent_id
		WHERE l.student_id = ?
		ORDER BY l.created_at, p.id`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parents []domain.Parent
	for rows.Next() {
		var p domain.Parent
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}
