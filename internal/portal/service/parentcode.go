package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/silveracademy/familyportal/internal/portal/domain"
	"github.com/silveracademy/familyportal/internal/portal/store"
	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/silveracademy/familyportal/pkg/idx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrCodeNotFound    = errors.New("code not found or not usable")
	ErrLinkCapReached  = errors.New("code has reached its link cap")
	ErrInvalidMaxLinks = errors.New("max links must be between 1 and 50")
	ErrInvalidStatus   = errors.New("status must be active or revoked")
	ErrNoActiveCode    = errors.New("student has no active code")
)

const (
	minMaxLinks = 1
	maxMaxLinks = 50
)

// ParentCodeService owns the lifecycle of student access codes: issuing,
// validating candidate codes against the active set, and admin mutation.
type ParentCodeService struct {
	Store store.Store
}

// IssueOptions controls a single code issuance. The zero value issues a
// non-expiring code with the default link cap, revoking any existing
// active codes and keeping a recoverable copy of the plaintext.
type IssueOptions struct {
	MaxLinks      int // 0 uses domain.DefaultMaxLinks
	ExpiresAt     *time.Time
	KeepExisting  bool // leave previously active codes in place
	SkipPlaintext bool // do not store an encrypted copy for later resend
}

// NormalizeCode maps a user-typed candidate to canonical form. Codes are
// issued uppercase, so comparison is insensitive to case and to
// surrounding whitespace.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Issue mints a fresh access code for a student. Revocation of prior
// active codes and insertion of the new row happen in one transaction,
// so no interleaving can observe the student without a code or with two
// intentionally active ones.
func (s *ParentCodeService) Issue(
	ctx context.Context,
	studentID string,
	opts IssueOptions,
) (string, domain.AccessCode, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the link cap.
	maxLinks := opts.MaxLinks
	if maxLinks == 0 {
		maxLinks = domain.DefaultMaxLinks
	}
	if maxLinks < minMaxLinks || maxLinks > maxMaxLinks {
		return "", domain.AccessCode{}, ErrInvalidMaxLinks
	}

	// 2. Validate the student exists.
	if _, err := s.Store.Students().GetStudentByID(ctx, studentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("attempted to issue code for unknown student",
				slog.String("student_id", studentID),
			)
			return "", domain.AccessCode{}, ErrStudentNotFound
		}
		log.Error("failed to fetch student", slog.Any("error", err))
		return "", domain.AccessCode{}, err
	}

	// 3. Mint and hash the plaintext.
	plain, err := cryptox.GenerateCode()
	if err != nil {
		log.Error("failed to generate code", slog.Any("error", err))
		return "", domain.AccessCode{}, err
	}
	hash, err := cryptox.HashSecret(plain)
	if err != nil {
		log.Error("failed to hash code", slog.Any("error", err))
		return "", domain.AccessCode{}, err
	}

	var encrypted []byte
	if !opts.SkipPlaintext {
		encrypted, err = cryptox.EncryptSecret([]byte(plain))
		if err != nil {
			log.Error("failed to encrypt code for resend", slog.Any("error", err))
			return "", domain.AccessCode{}, err
		}
	}

	now := time.Now().UTC()
	code := domain.AccessCode{
		ID:                 idx.New().String(),
		StudentID:          studentID,
		CodeHash:           hash,
		CodeLast4:          plain[len(plain)-4:],
		PlainCodeEncrypted: encrypted,
		MaxLinks:           maxLinks,
		Status:             domain.StatusActive,
		ExpiresAt:          opts.ExpiresAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// 4. Revoke and insert atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if !opts.KeepExisting {
			if err := tx.AccessCodes().RevokeActiveAccessCodes(ctx, studentID, now); err != nil {
				return err
			}
		}
		return tx.AccessCodes().CreateAccessCode(ctx, code)
	})
	if err != nil {
		log.Error("failed to store access code",
			slog.String("student_id", studentID),
			slog.Any("error", err),
		)
		return "", domain.AccessCode{}, err
	}

	log.Info("access code issued",
		slog.String("code_id", code.ID),
		slog.String("student_id", studentID),
		slog.Int("max_links", maxLinks),
	)

	// 5. The plaintext leaves the service exactly here.
	return plain, code, nil
}

// Validate resolves a user-typed candidate to the student and code it
// belongs to. The candidate is normalized, then checked against every
// active unexpired code with a slow hash comparison. Validate does not
// enforce the link cap; callers that gate redemption use IsValid.
func (s *ParentCodeService) Validate(
	ctx context.Context,
	candidate string,
) (domain.Student, domain.AccessCode, error) {
	log := slogx.FromContext(ctx)

	candidate = NormalizeCode(candidate)
	if candidate == "" {
		return domain.Student{}, domain.AccessCode{}, ErrCodeNotFound
	}

	codes, err := s.Store.AccessCodes().ListActiveAccessCodes(ctx, time.Now().UTC())
	if err != nil {
		log.Error("failed to list active codes", slog.Any("error", err))
		return domain.Student{}, domain.AccessCode{}, err
	}

	for _, c := range codes {
		if err := cryptox.VerifySecret(candidate, c.CodeHash); err != nil {
			if errors.Is(err, cryptox.ErrSecretMismatch) {
				continue
			}
			log.Error("failed to verify code hash",
				slog.String("code_id", c.ID),
				slog.Any("error", err),
			)
			return domain.Student{}, domain.AccessCode{}, err
		}

		student, err := s.Store.Students().GetStudentByID(ctx, c.StudentID)
		if err != nil {
			log.Error("failed to fetch student for matched code",
				slog.String("code_id", c.ID),
				slog.Any("error", err),
			)
			return domain.Student{}, domain.AccessCode{}, err
		}
		return student, c, nil
	}

	log.Debug("code validation found no match")
	return domain.Student{}, domain.AccessCode{}, ErrCodeNotFound
}

// IsValid reports whether a code is currently redeemable: active, not
// expired, and holding fewer distinct parent links than its cap. The
// link count is read fresh from the store on every call.
func (s *ParentCodeService) IsValid(ctx context.Context, code domain.AccessCode) (bool, error) {
	if code.Status != domain.StatusActive || code.Expired(time.Now().UTC()) {
		return false, nil
	}
	count, err := s.Store.Links().CountParentLinks(ctx, code.StudentID)
	if err != nil {
		return false, err
	}
	return count < code.MaxLinks, nil
}

// PlaintextIfStored recovers the original plaintext of a code when a
// copy was kept at issuance. Absent or undecryptable copies are a
// normal state, reported as ok=false rather than an error.
func (s *ParentCodeService) PlaintextIfStored(code domain.AccessCode) (string, bool) {
	if len(code.PlainCodeEncrypted) == 0 {
		return "", false
	}
	plain, err := cryptox.DecryptSecret(code.PlainCodeEncrypted)
	if err != nil {
		return "", false
	}
	return string(plain), true
}

// UpdatePatch carries the admin-mutable fields of a code. Nil fields
// are left unchanged.
type UpdatePatch struct {
	MaxLinks  *int
	ExpiresAt *time.Time
	Status    *string
}

// Update applies an admin mutation to a code in place. Status may only
// move between active and revoked; expiry is a derived condition
// evaluated at validation time, never a state an admin writes directly.
func (s *ParentCodeService) Update(
	ctx context.Context,
	codeID string,
	patch UpdatePatch,
) (domain.AccessCode, error) {
	log := slogx.FromContext(ctx)

	code, err := s.Store.AccessCodes().GetAccessCodeByID(ctx, codeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessCode{}, ErrCodeNotFound
		}
		log.Error("failed to fetch code", slog.Any("error", err))
		return domain.AccessCode{}, err
	}

	now := time.Now().UTC()

	if patch.MaxLinks != nil {
		if *patch.MaxLinks < minMaxLinks || *patch.MaxLinks > maxMaxLinks {
			return domain.AccessCode{}, ErrInvalidMaxLinks
		}
		code.MaxLinks = *patch.MaxLinks
	}
	if patch.ExpiresAt != nil {
		code.ExpiresAt = patch.ExpiresAt
	}
	if patch.Status != nil {
		switch *patch.Status {
		case domain.StatusActive:
			code.Status = domain.StatusActive
			code.RevokedAt = nil
		case domain.StatusRevoked:
			code.Status = domain.StatusRevoked
			code.RevokedAt = &now
		default:
			return domain.AccessCode{}, ErrInvalidStatus
		}
	}
	code.UpdatedAt = now

	if err := s.Store.AccessCodes().UpdateAccessCode(ctx, code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessCode{}, ErrCodeNotFound
		}
		log.Error("failed to update code",
			slog.String("code_id", codeID),
			slog.Any("error", err),
		)
		return domain.AccessCode{}, err
	}

	log.Info("access code updated",
		slog.String("code_id", codeID),
		slog.String("status", code.Status),
		slog.Int("max_links", code.MaxLinks),
	)
	return code, nil
}

// CodeStatus is the admin projection of a student's current code.
type CodeStatus struct {
	CodeID    string     `json:"code_id"`
	Status    string     `json:"status"`
	Last4     string     `json:"last4"`
	MaxLinks  int        `json:"max_links"`
	LinkCount int        `json:"link_count"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ActiveCodeStatus reports the newest active code for a student along
// with its current link count. Returns ErrNoActiveCode when every code
// has been revoked or expired.
func (s *ParentCodeService) ActiveCodeStatus(ctx context.Context, studentID string) (CodeStatus, error) {
	if _, err := s.Store.Students().GetStudentByID(ctx, studentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CodeStatus{}, ErrStudentNotFound
		}
		return CodeStatus{}, err
	}

	code, err := s.Store.AccessCodes().GetActiveAccessCodeForStudent(ctx, studentID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CodeStatus{}, ErrNoActiveCode
		}
		return CodeStatus{}, err
	}

	count, err := s.Store.Links().CountParentLinks(ctx, studentID)
	if err != nil {
		return CodeStatus{}, err
	}

	return CodeStatus{
		CodeID:    code.ID,
		Status:    code.Status,
		Last4:     code.CodeLast4,
		MaxLinks:  code.MaxLinks,
		LinkCount: count,
		CreatedAt: code.CreatedAt,
		ExpiresAt: code.ExpiresAt,
	}, nil
}
