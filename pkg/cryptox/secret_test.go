package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func usePepperDir(t *testing.T) {
	t.Helper()
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	cryptox.ResetPepperForTesting()
	t.Cleanup(cryptox.ResetPepperForTesting)
}

func TestHashAndVerifySecret(t *testing.T) {
	usePepperDir(t)

	hash, err := cryptox.HashSecret("ABC123XY89")
	require.NoError(t, err)

	require.NoError(t, cryptox.VerifySecret("ABC123XY89", hash))
	require.ErrorIs(t, cryptox.VerifySecret("ABC123XY88", hash), cryptox.ErrSecretMismatch)
}

func TestHashSecretIsPHCFormat(t *testing.T) {
	usePepperDir(t)

	hash, err := cryptox.HashSecret("ABC123XY89")
	require.NoError(t, err)

	// The stored hash must never be the plaintext or a reversible encoding
	// of it: it is PHC-format Argon2id output.
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	require.NotContains(t, hash, "ABC123XY89")
	require.Greater(t, len(hash), cryptox.CodeLength)
}

func TestHashSecretIsSalted(t *testing.T) {
	usePepperDir(t)

	h1, err := cryptox.HashSecret("same-secret")
	require.NoError(t, err)
	h2, err := cryptox.HashSecret("same-secret")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "two hashes of the same secret must use distinct salts")
	require.NoError(t, cryptox.VerifySecret("same-secret", h1))
	require.NoError(t, cryptox.VerifySecret("same-secret", h2))
}

func TestVerifySecretRejectsMalformedHash(t *testing.T) {
	usePepperDir(t)

	require.Error(t, cryptox.VerifySecret("whatever", "not-a-phc-string"))
	require.Error(t, cryptox.VerifySecret("whatever", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestGeneratePassword(t *testing.T) {
	p1, err := cryptox.GeneratePassword()
	require.NoError(t, err)
	require.Len(t, p1, 12)

	p2, err := cryptox.GeneratePassword()
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}
