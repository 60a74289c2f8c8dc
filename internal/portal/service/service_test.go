package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silveracademy/familyportal/internal/portal/domain"
	"github.com/silveracademy/familyportal/internal/portal/notify"
	"github.com/silveracademy/familyportal/internal/portal/store"
	"github.com/silveracademy/familyportal/internal/portal/store/drivers/sqlite"
	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/silveracademy/familyportal/pkg/idx"
)

func setupCrypto(t *testing.T) {
	t.Helper()
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	cryptox.ResetPepperForTesting()
	t.Setenv("PORTAL_MASTER_KEY", "service-test-master-key")
	cryptox.ResetMasterKeyForTesting()
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedStudent(t *testing.T, st store.Store, name, gradeName string) domain.Student {
	t.Helper()
	ctx := context.Background()

	grade := domain.Grade{ID: idx.New().String(), Name: gradeName}
	require.NoError(t, st.Students().CreateGrade(ctx, grade))

	student := domain.Student{ID: idx.New().String(), Name: name, GradeID: grade.ID}
	require.NoError(t, st.Students().CreateStudent(ctx, student))

	got, err := st.Students().GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	return got
}

func seedParent(t *testing.T, st store.Store, email string) domain.Parent {
	t.Helper()
	parent := domain.Parent{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Parents().CreateParent(context.Background(), parent))
	return parent
}

// fakeMailer records outgoing mail for assertions.
type fakeMailer struct {
	mu       sync.Mutex
	codes    []fakeCodeMail
	welcomes []fakeWelcomeMail
	fail     bool
}

type fakeCodeMail struct {
	To    string
	Items []notify.CodeItem
}

type fakeWelcomeMail struct {
	To           string
	TempPassword string
}

var _ notify.Mailer = (*fakeMailer)(nil)

func (m *fakeMailer) SendParentCodes(_ context.Context, to string, items []notify.CodeItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errFakeMailer
	}
	m.codes = append(m.codes, fakeCodeMail{To: to, Items: items})
	return nil
}

func (m *fakeMailer) SendWelcome(_ context.Context, to, _, tempPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errFakeMailer
	}
	m.welcomes = append(m.welcomes, fakeWelcomeMail{To: to, TempPassword: tempPassword})
	return nil
}

var errFakeMailer = errors.New("mailer unavailable")
