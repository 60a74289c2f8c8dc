package jwtx

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Verifier validates tokens minted by the portal SSO with a shared
// secret. Scopes travel in a space-delimited "scope" claim.
type HS256Verifier struct {
	secret []byte
	issuer string
}

func NewHS256Verifier(secret, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{Issuer: v.issuer}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if scope, ok := mapClaims["scope"].(string); ok {
		claims.Scopes = strings.Fields(scope)
	}

	return claims, nil
}

// SignHS256 mints a token with the given subject and scopes. The service
// itself never mints tokens outside of tests; the portal SSO does.
func SignHS256(secret, issuer, subject string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   issuer,
		"sub":   subject,
		"scope": strings.Join(scopes, " "),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
