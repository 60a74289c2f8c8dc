package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/silveracademy/familyportal/internal/portal/notify"
	"github.com/silveracademy/familyportal/internal/portal/store"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

var ErrNoRecipients = errors.New("student has no contact emails or linked parents")

// Up to this many codes travel in a single bulk message; larger batches
// for the same recipient are split.
const codesPerMessage = 5

// CodeMailService delivers access codes to family contacts. Recipients
// come from the student's imported contact emails, falling back to the
// first linked parent.
type CodeMailService struct {
	Store  store.Store
	Codes  *ParentCodeService
	Mailer notify.Mailer
}

// RecipientResult is the per-recipient outcome of a send.
type RecipientResult struct {
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// SendReport summarizes a send operation.
type SendReport struct {
	Sent       int               `json:"sent"`
	Failed     int               `json:"failed"`
	Recipients []RecipientResult `json:"recipients,omitempty"`
}

// SendToStudentContacts emails the student's current code to every
// contact. When no code exists or its plaintext cannot be recovered,
// a fresh code is issued first; the old one is revoked in the process.
func (s *CodeMailService) SendToStudentContacts(ctx context.Context, studentID string) (SendReport, error) {
	log := slogx.FromContext(ctx)

	student, err := s.Store.Students().GetStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SendReport{}, ErrStudentNotFound
		}
		return SendReport{}, err
	}

	plain, err := s.resolvePlaintext(ctx, studentID)
	if err != nil {
		return SendReport{}, err
	}

	recipients, err := s.recipientsForStudent(ctx, studentID)
	if err != nil {
		return SendReport{}, err
	}

	var report SendReport
	items := []notify.CodeItem{{StudentName: student.Name, Code: plain}}
	for _, to := range recipients {
		res := RecipientResult{Email: to, Sent: true}
		if err := s.Mailer.SendParentCodes(ctx, to, items); err != nil {
			log.Error("failed to send code email",
				slog.String("student_id", studentID),
				slog.String("to", to),
				slog.Any("error", err),
			)
			res.Sent = false
			res.Error = err.Error()
			report.Failed++
		} else {
			report.Sent++
		}
		report.Recipients = append(report.Recipients, res)
	}

	log.Info("code email dispatched",
		slog.String("student_id", studentID),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// BulkSendForGrade emails codes for every student in a grade, grouped
// by recipient so a family with several children gets one message per
// batch of five codes. Students without a recoverable plaintext are
// skipped rather than force-regenerated across the whole grade.
func (s *CodeMailService) BulkSendForGrade(ctx context.Context, gradeID string) (SendReport, error) {
	log := slogx.FromContext(ctx)

	students, err := s.Store.Students().ListStudentsByGrade(ctx, gradeID)
	if err != nil {
		return SendReport{}, err
	}

	now := time.Now().UTC()
	byRecipient := make(map[string][]notify.CodeItem)
	for _, student := range students {
		code, err := s.Store.AccessCodes().GetActiveAccessCodeForStudent(ctx, student.ID, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return SendReport{}, err
		}
		plain, ok := s.Codes.PlaintextIfStored(code)
		if !ok {
			log.Debug("skipping student without recoverable plaintext",
				slog.String("student_id", student.ID),
			)
			continue
		}

		recipients, err := s.recipientsForStudent(ctx, student.ID)
		if err != nil {
			if errors.Is(err, ErrNoRecipients) {
				continue
			}
			return SendReport{}, err
		}
		for _, to := range recipients {
			byRecipient[to] = append(byRecipient[to], notify.CodeItem{
				StudentName: student.Name,
				Code:        plain,
			})
		}
	}

	// Deterministic dispatch order.
	recipients := make([]string, 0, len(byRecipient))
	for to := range byRecipient {
		recipients = append(recipients, to)
	}
	sort.Strings(recipients)

	var report SendReport
	for _, to := range recipients {
		items := byRecipient[to]
		for start := 0; start < len(items); start += codesPerMessage {
			end := min(start+codesPerMessage, len(items))
			res := RecipientResult{Email: to, Sent: true}
			if err := s.Mailer.SendParentCodes(ctx, to, items[start:end]); err != nil {
				log.Error("failed to send bulk code email",
					slog.String("grade_id", gradeID),
					slog.String("to", to),
					slog.Any("error", err),
				)
				res.Sent = false
				res.Error = err.Error()
				report.Failed++
			} else {
				report.Sent++
			}
			report.Recipients = append(report.Recipients, res)
		}
	}

	log.Info("bulk code email dispatched",
		slog.String("grade_id", gradeID),
		slog.Int("students", len(students)),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// resolvePlaintext returns the student's current code in the clear,
// issuing a replacement when no copy survives.
func (s *CodeMailService) resolvePlaintext(ctx context.Context, studentID string) (string, error) {
	code, err := s.Store.AccessCodes().GetActiveAccessCodeForStudent(ctx, studentID, time.Now().UTC())
	if err == nil {
		if plain, ok := s.Codes.PlaintextIfStored(code); ok {
			return plain, nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	plain, _, err := s.Codes.Issue(ctx, studentID, IssueOptions{})
	return plain, err
}

func (s *CodeMailService) recipientsForStudent(ctx context.Context, studentID string) ([]string, error) {
	emails, err := s.Store.Students().ListContactEmails(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(emails) > 0 {
		return emails, nil
	}

	parents, err := s.Store.Links().ListLinkedParents(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, ErrNoRecipients
	}
	return []string{parents[0].Email}, nil
}
