package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

func TestStudentHint(t *testing.T) {
	t.Parallel()

	t.Run("uses the first token and the next token's initial", func(t *testing.T) {
		hint := StudentHint(domain.Student{Name: "Jane Q. Public", GradeName: "1st Grade"})
		require.Equal(t, "Jane", hint.FirstName)
		require.Equal(t, "Q", hint.LastInitial)
		require.Equal(t, "1st Grade", hint.GradeName)
	})

	t.Run("never contains the surname", func(t *testing.T) {
		hint := StudentHint(domain.Student{Name: "Jane Q. Public", GradeName: "1st Grade"})
		require.NotContains(t, []string{hint.FirstName, hint.LastInitial, hint.GradeName}, "Public")
	})

	t.Run("single token has no initial", func(t *testing.T) {
		hint := StudentHint(domain.Student{Name: "Cher", GradeName: "Kindergarten"})
		require.Equal(t, "Cher", hint.FirstName)
		require.Empty(t, hint.LastInitial)
	})

	t.Run("splits on the first whitespace run", func(t *testing.T) {
		hint := StudentHint(domain.Student{Name: "  Test   Student  "})
		require.Equal(t, "Test", hint.FirstName)
		require.Equal(t, "S", hint.LastInitial)
	})

	t.Run("initial is uppercased", func(t *testing.T) {
		hint := StudentHint(domain.Student{Name: "ana de armas"})
		require.Equal(t, "ana", hint.FirstName)
		require.Equal(t, "D", hint.LastInitial)
	})

	t.Run("empty name yields an empty hint", func(t *testing.T) {
		hint := StudentHint(domain.Student{Name: "   ", GradeName: "2nd Grade"})
		require.Empty(t, hint.FirstName)
		require.Empty(t, hint.LastInitial)
		require.Equal(t, "2nd Grade", hint.GradeName)
	})
}
