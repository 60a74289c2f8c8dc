package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/silveracademy/familyportal/internal/portal/domain"
	"github.com/silveracademy/familyportal/internal/portal/notify"
	"github.com/silveracademy/familyportal/internal/portal/store"
	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/silveracademy/familyportal/pkg/idx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

var (
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrParentNotFound = errors.New("parent not found")
)

// LinkService redeems access codes into parent-student links. Both
// entry points share the same transactional attach: insert the link
// idempotently, recount inside the transaction, and roll back when the
// count overshoots the cap. A concurrent redeemer that loses the race
// for the last slot is rejected rather than silently over-linking.
type LinkService struct {
	Store  store.Store
	Codes  *ParentCodeService
	Mailer notify.Mailer
}

// SignupResult reports what Signup did for the caller's email.
type SignupResult struct {
	Parent         domain.Parent
	Student        domain.Student
	AccountCreated bool
}

// Signup redeems a code for a possibly-new parent account. Unknown
// emails get an account with a generated temporary password, delivered
// by email after the link commits.
func (s *LinkService) Signup(ctx context.Context, email, candidate string) (SignupResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return SignupResult{}, ErrInvalidEmail
	}

	// 2. Resolve the code to a student. The cap is enforced inside the
	// attach transaction, not here, so two racing signups cannot both
	// take the last slot.
	student, code, err := s.Codes.Validate(ctx, candidate)
	if err != nil {
		return SignupResult{}, err
	}

	// 3. Find or provision the parent, then attach, atomically.
	var (
		result       SignupResult
		tempPassword string
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		parent, err := tx.Parents().GetParentByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			tempPassword, err = cryptox.GeneratePassword()
			if err != nil {
				return err
			}
			hash, err := cryptox.HashSecret(tempPassword)
			if err != nil {
				return err
			}
			parent = domain.Parent{
				ID:           idx.New().String(),
				Email:        email,
				PasswordHash: hash,
				CreatedAt:    time.Now().UTC(),
			}
			if err := tx.Parents().CreateParent(ctx, parent); err != nil {
				return err
			}
			result.AccountCreated = true
		} else if err != nil {
			return err
		}

		if err := s.attach(ctx, tx, code, parent.ID); err != nil {
			return err
		}

		result.Parent = parent
		result.Student = student
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLinkCapReached) {
			log.Warn("signup rejected at link cap",
				slog.String("code_id", code.ID),
				slog.String("student_id", student.ID),
			)
		}
		return SignupResult{}, err
	}

	// 4. Deliver the temporary password outside the transaction. A
	// delivery failure does not undo the link; the office can reset the
	// password manually.
	if result.AccountCreated {
		if err := s.Mailer.SendWelcome(ctx, email, result.Parent.Name, tempPassword); err != nil {
			log.Error("failed to send welcome email",
				slog.String("parent_id", result.Parent.ID),
				slog.Any("error", err),
			)
		}
	}

	log.Info("parent linked via signup",
		slog.String("parent_id", result.Parent.ID),
		slog.String("student_id", student.ID),
		slog.Bool("account_created", result.AccountCreated),
	)
	return result, nil
}

// AddChild links one more student to an existing parent account. An
// already-linked student is a no-op success.
func (s *LinkService) AddChild(ctx context.Context, parentID, candidate string) (domain.Student, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Parents().GetParentByID(ctx, parentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Student{}, ErrParentNotFound
		}
		return domain.Student{}, err
	}

	student, code, err := s.Codes.Validate(ctx, candidate)
	if err != nil {
		return domain.Student{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return s.attach(ctx, tx, code, parentID)
	})
	if err != nil {
		return domain.Student{}, err
	}

	log.Info("child linked to parent",
		slog.String("parent_id", parentID),
		slog.String("student_id", student.ID),
	)
	return student, nil
}

// attach inserts the link and enforces the cap with a recount in the
// same transaction. An insert that lands past the cap rolls back.
func (s *LinkService) attach(ctx context.Context, tx store.Tx, code domain.AccessCode, parentID string) error {
	inserted, err := tx.Links().AttachParent(ctx, code.StudentID, parentID)
	if err != nil {
		return err
	}
	if !inserted {
		// Already linked; never counts against the cap again.
		return nil
	}
	count, err := tx.Links().CountParentLinks(ctx, code.StudentID)
	if err != nil {
		return err
	}
	if count > code.MaxLinks {
		return ErrLinkCapReached
	}
	return nil
}
