package jwtx

import (
	"errors"
	"time"
)

var (
	ErrTokenExpired = errors.New("jwtx: token expired")
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Claims is the validated subset of a portal access token this service
// cares about: who the caller is and what they may do.
type Claims struct {
	Subject   string
	Issuer    string
	Scopes    []string
	ExpiresAt time.Time
}

func (c Claims) ValidateExpiry() error {
	if !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// Verifier validates a raw bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}
