package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerSignAndVerify(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	grant, err := signer.Sign("doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, grant.Token)
	require.False(t, grant.ExpiresAt.IsZero())

	require.NoError(t, signer.Verify(grant.Token, "doc-1"))
	require.ErrorIs(t, signer.Verify(grant.Token, "doc-2"), ErrTokenInvalid)
	require.ErrorIs(t, signer.Verify(grant.Token+"00", "doc-1"), ErrTokenInvalid)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	grant, err := signer.Sign("doc-1")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.ErrorIs(t, signer.Verify(grant.Token, "doc-1"), ErrTokenExpired)
}

func TestSignedURLSignerOtherSecret(t *testing.T) {
	grant, err := NewSignedURLSigner("secret", time.Hour).Sign("doc-1")
	require.NoError(t, err)
	require.ErrorIs(t, NewSignedURLSigner("other", time.Hour).Verify(grant.Token, "doc-1"), ErrTokenInvalid)
}
