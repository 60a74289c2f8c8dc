package store

import (
	"context"
	"errors"
	"time"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	AccessCodes() AccessCodes
	Students() Students
	Parents() Parents
	Links() Links

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: committed when fn returns
	// nil, rolled back otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (revoke+issue, attach+count).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type AccessCodes interface {
	// CreateAccessCode inserts a new code row (id is provided by app via ULID).
	CreateAccessCode(ctx context.Context, c domain.AccessCode) error

	// GetAccessCodeByID returns a code by id regardless of status.
	GetAccessCodeByID(ctx context.Context, id string) (domain.AccessCode, error)

	// ListActiveAccessCodes returns every code with status=active whose
	// expiry is null or after now. This is the validation scan scope and
	// is re-evaluated at query time, never cached.
	ListActiveAccessCodes(ctx context.Context, now time.Time) ([]domain.AccessCode, error)

	// GetActiveAccessCodeForStudent returns the student's newest active,
	// unexpired code. Multiple actives can exist if issuance was bypassed;
	// newest created_at wins deterministically.
	GetActiveAccessCodeForStudent(ctx context.Context, studentID string, now time.Time) (domain.AccessCode, error)

	// RevokeActiveAccessCodes flips every active code of the student to
	// revoked and stamps revoked_at.
	RevokeActiveAccessCodes(ctx context.Context, studentID string, revokedAt time.Time) error

	// UpdateAccessCode writes max_links, expires_at, status and revoked_at,
	// bumping updated_at.
	UpdateAccessCode(ctx context.Context, c domain.AccessCode) error
}

type Students interface {
	// CreateGrade inserts a grade (roster import path and tests).
	CreateGrade(ctx context.Context, g domain.Grade) error

	// CreateStudent inserts a student row.
	CreateStudent(ctx context.Context, s domain.Student) error

	// GetStudentByID returns the student with its grade name resolved.
	GetStudentByID(ctx context.Context, id string) (domain.Student, error)

	// ListStudentsByGrade returns the grade's roster for bulk code mailing.
	ListStudentsByGrade(ctx context.Context, gradeID string) ([]domain.Student, error)

	// AddContactEmail records an import-provided contact address for a
	// student. Duplicate addresses are ignored.
	AddContactEmail(ctx context.Context, studentID, email string) error

	// ListContactEmails returns the student's contact addresses.
	ListContactEmails(ctx context.Context, studentID string) ([]string, error)
}

type Parents interface {
	// CreateParent inserts a parent account (signup auto-provisioning).
	CreateParent(ctx context.Context, p domain.Parent) error

	// GetParentByID returns a parent account by id.
	GetParentByID(ctx context.Context, id string) (domain.Parent, error)

	// GetParentByEmail returns a parent account by its unique email.
	GetParentByEmail(ctx context.Context, email string) (domain.Parent, error)
}

type Links interface {
	// AttachParent links a parent to a student. The insert is idempotent
	// per (student, parent): attaching an already-linked parent reports
	// inserted=false and is not an error.
	AttachParent(ctx context.Context, studentID, parentID string) (inserted bool, err error)

	// CountParentLinks returns the number of distinct parent accounts
	// linked to the student.
	CountParentLinks(ctx context.Context, studentID string) (int, error)

	// ListLinkedParents returns the student's linked parent accounts,
	// oldest link first.
	ListLinkedParents(ctx context.Context, studentID string) ([]domain.Parent, error)
}
