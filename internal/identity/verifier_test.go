package identity

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()

	key := make([]byte, keyBytesSize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	svc, err := NewTokenService(key, duration)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RejectsShortKey(t *testing.T) {
	_, err := NewTokenService([]byte("too short"), time.Minute)
	assert.ErrorContains(t, err, "32 bytes")
}

func TestVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Mint(Identity{UID: "firebase-uid-1", Email: "reader@example.com", Name: "Reader One"})
	require.NoError(t, err)

	ident, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", ident.UID)
	assert.Equal(t, "reader@example.com", ident.Email)
	assert.Equal(t, "Reader One", ident.Name)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Verify(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestVerify_RejectsWrongKey(t *testing.T) {
	issuer := newTestService(t, time.Hour)
	verifier := newTestService(t, time.Hour)

	token, err := issuer.Mint(Identity{UID: "uid-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerify_RejectsExpired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	token, err := svc.Mint(Identity{UID: "uid-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerify_CancelledContext(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Mint(Identity{UID: "uid-1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadOrGenerateKey_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, first, keyBytesSize)

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
