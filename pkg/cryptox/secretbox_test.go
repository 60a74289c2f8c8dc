package cryptox_test

import (
	"os"
	"testing"

	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func useMasterKey(t *testing.T, key string) {
	t.Helper()
	os.Setenv("PORTAL_MASTER_KEY", key)
	cryptox.ResetMasterKeyForTesting()
	t.Cleanup(func() {
		os.Unsetenv("PORTAL_MASTER_KEY")
		cryptox.ResetMasterKeyForTesting()
	})
}

func TestEncryptDecryptSecret(t *testing.T) {
	useMasterKey(t, "test-master-key-for-encryption-12345")

	plaintext := []byte("ABC123XY89")

	encrypted, err := cryptox.EncryptSecret(plaintext)
	require.NoError(t, err)
	require.NotEmpty(t, encrypted)
	require.NotEqual(t, plaintext, encrypted, "encrypted data should differ from plaintext")

	decrypted, err := cryptox.DecryptSecret(encrypted)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptSecretUsesRandomNonce(t *testing.T) {
	useMasterKey(t, "test-master-key-multiple-times-xyz")

	plaintext := []byte("QRSTUVWX23")

	e1, err := cryptox.EncryptSecret(plaintext)
	require.NoError(t, err)
	e2, err := cryptox.EncryptSecret(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, e1, e2, "repeated encryptions should produce different ciphertexts")

	d1, err := cryptox.DecryptSecret(e1)
	require.NoError(t, err)
	require.Equal(t, plaintext, d1)

	d2, err := cryptox.DecryptSecret(e2)
	require.NoError(t, err)
	require.Equal(t, plaintext, d2)
}

func TestDecryptSecretRejectsGarbage(t *testing.T) {
	useMasterKey(t, "test-master-key-invalid-data")

	_, err := cryptox.DecryptSecret([]byte("invalid-encrypted-data"))
	require.Error(t, err)
}

func TestDecryptSecretRejectsTamperedData(t *testing.T) {
	useMasterKey(t, "test-master-key-tampered")

	encrypted, err := cryptox.EncryptSecret([]byte("original-code"))
	require.NoError(t, err)

	tampered := make([]byte, len(encrypted))
	copy(tampered, encrypted)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = cryptox.DecryptSecret(tampered)
	require.Error(t, err, "decrypting tampered data should fail")
}

func TestDecryptSecretRejectsShortInput(t *testing.T) {
	useMasterKey(t, "test-master-key-short")

	_, err := cryptox.DecryptSecret([]byte("short"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "too short")
}

func TestDecryptWithRotatedKeyFails(t *testing.T) {
	useMasterKey(t, "first-master-key")

	encrypted, err := cryptox.EncryptSecret([]byte("ABC123XY89"))
	require.NoError(t, err)

	// Rotating the master key must make old ciphertexts unreadable without
	// crashing; callers treat this as "plaintext unavailable".
	os.Setenv("PORTAL_MASTER_KEY", "second-master-key")
	cryptox.ResetMasterKeyForTesting()

	_, err = cryptox.DecryptSecret(encrypted)
	require.Error(t, err)
}
