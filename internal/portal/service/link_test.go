package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silveracademy/familyportal/internal/portal/store"
)

func newLinkService(st store.Store, mailer *fakeMailer) *LinkService {
	return &LinkService{
		Store:  st,
		Codes:  &ParentCodeService{Store: st},
		Mailer: mailer,
	}
}

func TestSignupProvisionsAccountAndLinks(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := newLinkService(st, mailer)

	student := seedStudent(t, st, "Avery Stone", "3rd Grade")
	plain, _, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{})
	require.NoError(t, err)

	result, err := svc.Signup(ctx, "  New.Parent@Example.COM ", plain)
	require.NoError(t, err)
	require.True(t, result.AccountCreated)
	require.Equal(t, "new.parent@example.com", result.Parent.Email)
	require.Equal(t, student.ID, result.Student.ID)

	count, err := st.Links().CountParentLinks(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.Len(t, mailer.welcomes, 1)
	require.Equal(t, "new.parent@example.com", mailer.welcomes[0].To)
	require.NotEmpty(t, mailer.welcomes[0].TempPassword)
}

func TestSignupWithExistingAccountDoesNotReprovision(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := newLinkService(st, mailer)

	student := seedStudent(t, st, "Avery Stone", "3rd Grade")
	parent := seedParent(t, st, "known@example.com")
	plain, _, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{})
	require.NoError(t, err)

	result, err := svc.Signup(ctx, "known@example.com", plain)
	require.NoError(t, err)
	require.False(t, result.AccountCreated)
	require.Equal(t, parent.ID, result.Parent.ID)
	require.Empty(t, mailer.welcomes)
}

func TestSignupRepeatIsIdempotent(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	svc := newLinkService(st, &fakeMailer{})

	student := seedStudent(t, st, "Avery Stone", "3rd Grade")
	plain, _, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{MaxLinks: 1})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "parent@example.com", plain)
	require.NoError(t, err)

	// The same parent redeeming again stays within the cap.
	_, err = svc.Signup(ctx, "parent@example.com", plain)
	require.NoError(t, err)

	count, err := st.Links().CountParentLinks(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSignupEnforcesLinkCap(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	svc := newLinkService(st, &fakeMailer{})

	student := seedStudent(t, st, "Avery Stone", "3rd Grade")
	plain, _, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{MaxLinks: 1})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "first@example.com", plain)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "second@example.com", plain)
	require.ErrorIs(t, err, ErrLinkCapReached)

	count, err := st.Links().CountParentLinks(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSignupRejectsBadInput(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	svc := newLinkService(st, &fakeMailer{})

	_, err := svc.Signup(ctx, "not-an-email", "ABC123XY89")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Signup(ctx, "parent@example.com", "ABC123XY89")
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestSignupSurvivesWelcomeMailFailure(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	mailer := &fakeMailer{fail: true}
	svc := newLinkService(st, mailer)

	student := seedStudent(t, st, "Avery Stone", "3rd Grade")
	plain, _, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{})
	require.NoError(t, err)

	result, err := svc.Signup(ctx, "parent@example.com", plain)
	require.NoError(t, err, "a failed welcome email must not undo the link")
	require.True(t, result.AccountCreated)

	count, err := st.Links().CountParentLinks(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAddChildLinksAndIsIdempotent(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	svc := newLinkService(st, &fakeMailer{})

	student := seedStudent(t, st, "Avery Stone", "3rd Grade")
	parent := seedParent(t, st, "parent@example.com")
	plain, _, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{})
	require.NoError(t, err)

	got, err := svc.AddChild(ctx, parent.ID, plain)
	require.NoError(t, err)
	require.Equal(t, student.ID, got.ID)

	_, err = svc.AddChild(ctx, parent.ID, plain)
	require.NoError(t, err)

	count, err := st.Links().CountParentLinks(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAddChildRejectsUnknownParent(t *testing.T) {
	setupCrypto(t)
	st := newTestStore(t)
	svc := newLinkService(st, &fakeMailer{})

	_, err := svc.AddChild(context.Background(), "no-such-parent", "ABC123XY89")
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestEndToEndFamilyLinking(t *testing.T) {
	setupCrypto(t)
	ctx := context.Background()
	st := newTestStore(t)
	svc := newLinkService(st, &fakeMailer{})

	student := seedStudent(t, st, "Test Student", "1st Grade")

	plain, code, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{MaxLinks: 5})
	require.NoError(t, err)

	gotStudent, _, err := svc.Codes.Validate(ctx, plain)
	require.NoError(t, err)
	hint := StudentHint(gotStudent)
	require.Equal(t, "Test", hint.FirstName)
	require.Equal(t, "S", hint.LastInitial)

	_, err = svc.Signup(ctx, "parent0@example.com", plain)
	require.NoError(t, err)

	ok, err := svc.Codes.IsValid(ctx, code)
	require.NoError(t, err)
	require.True(t, ok, "1 of 5 links used")

	for i := 1; i < 5; i++ {
		_, err = svc.Signup(ctx, fmt.Sprintf("parent%d@example.com", i), plain)
		require.NoError(t, err)
	}

	ok, err = svc.Codes.IsValid(ctx, code)
	require.NoError(t, err)
	require.False(t, ok, "all 5 links used")

	_, err = svc.Signup(ctx, "parent5@example.com", plain)
	require.ErrorIs(t, err, ErrLinkCapReached)

	// Regenerate: the old code dies and the new one starts unlinked
	// against a fresh cap evaluation for its own student.
	newPlain, newCode, err := svc.Codes.Issue(ctx, student.ID, IssueOptions{MaxLinks: 5})
	require.NoError(t, err)

	_, _, err = svc.Codes.Validate(ctx, plain)
	require.ErrorIs(t, err, ErrCodeNotFound)

	_, matched, err := svc.Codes.Validate(ctx, newPlain)
	require.NoError(t, err)
	require.Equal(t, newCode.ID, matched.ID)
}
