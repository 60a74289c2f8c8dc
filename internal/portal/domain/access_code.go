package domain

import "time"

// AccessCode lifecycle states. Expiry is enforced at validation time via
// ExpiresAt; nothing sweeps active rows into StatusExpired, so admins may
// only write StatusActive or StatusRevoked.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
	StatusExpired = "expired"
)

// DefaultMaxLinks caps the number of distinct parent accounts that may
// redeem one student's code unless an admin overrides it.
const DefaultMaxLinks = 5

// AccessCode is one issued parent code for one student. The plaintext is
// returned exactly once at issuance; CodeHash is the only matching field
// and PlainCodeEncrypted exists solely so the code can be re-emailed
// without minting a new one.
type AccessCode struct {
	ID        string
	StudentID string

	// CodeHash is a salted, peppered Argon2id hash of the normalized
	// plaintext. Never reversible.
	CodeHash string

	// CodeLast4 holds the final 4 characters of the normalized plaintext,
	// in clear, for human confirmation in admin views. Not security-bearing.
	CodeLast4 string

	// PlainCodeEncrypted is an optional AES-GCM encryption of the original
	// plaintext. Nil for codes issued before plaintext retention or when
	// retention is disabled; callers must handle "plaintext unavailable".
	PlainCodeEncrypted []byte

	MaxLinks  int
	Status    string
	ExpiresAt *time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the code's expiry instant has passed. Codes
// without an expiry never expire.
func (c AccessCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
