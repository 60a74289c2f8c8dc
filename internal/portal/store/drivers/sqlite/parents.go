package sqlite

import (
	"context"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

type parentsRepo struct {
	q dbtx
}

func (r *parentsRepo) CreateParent(ctx context.Context, p domain.Parent) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO parents (id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		p.ID, p.Email, p.Name, p.PasswordHash,
	)
	return err
}

func (r *parentsRepo) GetParentByID(ctx context.Context, id string) (domain.Parent, error) {
	return r.getParent(ctx, `WHERE id = ?`, id)
}

func (r *parentsRepo) GetParentByEmail(ctx context.Context, email string) (domain.Parent, error) {
	return r.getParent(ctx, `WHERE email = ?`, email)
}

func (r *parentsRepo) getParent(ctx context.Context, where string, arg any) (domain.Parent, error) {
	var p domain.Parent
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM parents `+where, arg,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return domain.Parent{}, mapNotFound(err)
	}
	return p, nil
}
