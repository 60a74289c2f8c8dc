package cryptox_test

import (
	"strings"
	"testing"

	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeLengthAndAlphabet(t *testing.T) {
	for range 50 {
		code, err := cryptox.GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, cryptox.CodeLength)

		for _, r := range code {
			require.True(t, strings.ContainsRune(cryptox.CodeAlphabet, r),
				"code %q contains %q outside the alphabet", code, r)
		}
	}
}

func TestGenerateCodeExcludesAmbiguousGlyphs(t *testing.T) {
	require.NotContains(t, cryptox.CodeAlphabet, "0")
	require.NotContains(t, cryptox.CodeAlphabet, "O")
	require.NotContains(t, cryptox.CodeAlphabet, "1")
	require.NotContains(t, cryptox.CodeAlphabet, "I")
	require.Len(t, cryptox.CodeAlphabet, 32)
}

func TestGenerateCodeIsNotRepeating(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code, err := cryptox.GenerateCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %q in 100 generations", code)
		seen[code] = struct{}{}
	}
}
