package jwtx_test

import (
	"testing"
	"time"

	"github.com/silveracademy/familyportal/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestHS256SignAndVerify(t *testing.T) {
	token, err := jwtx.SignHS256("secret", "portal-sso", "admin-1", []string{"admin:read", "admin:write"}, time.Minute)
	require.NoError(t, err)

	v := jwtx.NewHS256Verifier("secret", "portal-sso")
	claims, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.Subject)
	require.Equal(t, []string{"admin:read", "admin:write"}, claims.Scopes)
	require.NoError(t, claims.ValidateExpiry())
}

func TestHS256VerifyFailsForWrongSecret(t *testing.T) {
	token, err := jwtx.SignHS256("secret", "portal-sso", "admin-1", nil, time.Minute)
	require.NoError(t, err)

	v := jwtx.NewHS256Verifier("other-secret", "portal-sso")
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestHS256VerifyFailsForWrongIssuer(t *testing.T) {
	token, err := jwtx.SignHS256("secret", "someone-else", "admin-1", nil, time.Minute)
	require.NoError(t, err)

	v := jwtx.NewHS256Verifier("secret", "portal-sso")
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestHS256VerifyFailsForExpiredToken(t *testing.T) {
	token, err := jwtx.SignHS256("secret", "portal-sso", "admin-1", nil, -time.Minute)
	require.NoError(t, err)

	v := jwtx.NewHS256Verifier("secret", "portal-sso")
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}
