package sqlite

import (
	"context"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

type studentsRepo struct {
	q dbtx
}

func (r *studentsRepo) CreateGrade(ctx context.Context, g domain.Grade) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO grades (id, name) VALUES (?, ?)`,
		g.ID, g.Name,
	)
	return err
}

func (r *studentsRepo) CreateStudent(ctx context.Context, s domain.Student) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO students (id, name, grade_id) VALUES (?, ?, ?)`,
		s.ID, s.Name, s.GradeID,
	)
	return err
}

func (r *studentsRepo) GetStudentByID(ctx context.Context, id string) (domain.Student, error) {
	var s domain.Student
	err := r.q.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.grade_id, g.name, s.created_at
		FROM students s
		JOIN grades g ON g.id = s.grade_id
		WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.GradeID, &s.GradeName, &s.CreatedAt)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	return s, nil
}

func (r *studentsRepo) ListStudentsByGrade(ctx context.Context, gradeID string) ([]domain.Student, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT s.id, s.name, s.grade_id, g.name, s.created_at
		FROM students s
		JOIN grades g ON g.id = s.grade_id
		WHERE s.grade_id = ?
		ORDER BY s.name`, gradeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.GradeID, &s.GradeName, &s.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentsRepo) AddContactEmail(ctx context.Context, studentID, email string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO student_contacts (student_id, email) VALUES (?, ?)
		ON CONFLICT (student_id, email) DO NOTHING`,
		studentID, email,
	)
	return err
}

func (r *studentsRepo) ListContactEmails(ctx context.Context, studentID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT email FROM student_contacts
		WHERE student_id = ?
		ORDER BY created_at, email`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
