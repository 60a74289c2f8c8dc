package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	masterKeyOnce sync.Once
	masterKey     []byte
	masterKeyPath string = "" // Can be set via SetMasterKeyPath before first use
)

// SetMasterKeyPath configures where to load the master encryption key from.
// This must be called before any encryption/decryption operations.
// If not set, the key is loaded from the PORTAL_MASTER_KEY environment
// variable.
func SetMasterKeyPath(path string) {
	masterKeyPath = path
}

// loadMasterKey loads and derives a 32-byte AES-256 key from either:
// 1. File specified by masterKeyPath (if set)
// 2. PORTAL_MASTER_KEY environment variable
// 3. Generates an ephemeral key for development (NOT for production:
//    stored plaintexts become unreadable after restart, hashes still work)
func loadMasterKey() ([]byte, error) {
	var keyMaterial []byte

	if masterKeyPath != "" {
		data, err := os.ReadFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		keyMaterial = data
	} else {
		envKey := os.Getenv("PORTAL_MASTER_KEY")
		if envKey != "" {
			keyMaterial = []byte(envKey)
		} else {
			keyMaterial = make([]byte, 32)
			if _, err := rand.Read(keyMaterial); err != nil {
				return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
			}
		}
	}

	// Derive a proper 32-byte key using SHA-256
	hash := sha256.Sum256(keyMaterial)
	return hash[:], nil
}

func getMasterKey() ([]byte, error) {
	var err error
	masterKeyOnce.Do(func() {
		masterKey, err = loadMasterKey()
	})
	if err != nil {
		return nil, err
	}
	return masterKey, nil
}

// EncryptSecret encrypts a plaintext secret using AES-256-GCM.
// The output format is: [12-byte nonce][encrypted data][16-byte auth tag]
// A random nonce is used per encryption, so repeated encryptions of the
// same plaintext produce different ciphertexts.
func EncryptSecret(plaintext []byte) ([]byte, error) {
	key, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// gcm.Seal appends the ciphertext and auth tag to nonce
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptSecret decrypts data encrypted with EncryptSecret.
// Expects format: [12-byte nonce][encrypted data][16-byte auth tag]
func DecryptSecret(encrypted []byte) ([]byte, error) {
	key, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := encrypted[:nonceSize], encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// ResetMasterKeyForTesting resets the master key singleton for testing
// purposes. This should ONLY be used in tests.
func ResetMasterKeyForTesting() {
	masterKeyOnce = sync.Once{}
	masterKey = nil
}
