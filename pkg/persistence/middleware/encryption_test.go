package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/aretw0/delta/internal/demo"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/persistence/middleware"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func newEncrypted(t *testing.T, next ports.RunStore, active []byte, fallback ...[]byte) ports.RunStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	})
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	a, err := demo.AB1()
	require.NoError(t, err)

	underlying := NewMockStore()
	store := newEncrypted(t, underlying, generateKey(t))

	ctx := context.Background()
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	run := &domain.Run{ID: "r1", Automaton: demo.AB1Name, Input: "ab1a", Result: a.Check("ab1a"), CreatedAt: created}
	require.NoError(t, store.Save(ctx, run))

	// The backend only sees the envelope.
	envelope := underlying.data["r1"]
	assert.Empty(t, envelope.Input)
	assert.Empty(t, envelope.Result.Trace)
	assert.NotEmpty(t, envelope.Sealed)
	assert.NotContains(t, envelope.Sealed, "ab1a")
	assert.Equal(t, demo.AB1Name, envelope.Automaton)
	assert.Equal(t, run.Result.Verdict, envelope.Result.Verdict)
	assert.True(t, created.Equal(envelope.CreatedAt))

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "ab1a", loaded.Input)
	assert.Equal(t, run.Result, loaded.Result)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := NewMockStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	require.NoError(t, newEncrypted(t, underlying, oldKey).Save(ctx, &domain.Run{ID: "old", Input: "ab"}))

	rotated := newEncrypted(t, underlying, newKey, oldKey)
	loaded, err := rotated.Load(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "ab", loaded.Input)

	_, err = newEncrypted(t, underlying, newKey).Load(ctx, "old")
	assert.ErrorContains(t, err, "failed to decrypt run")
}

func TestEncryptionMiddleware_PlainRunRejected(t *testing.T) {
	underlying := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, &domain.Run{ID: "plain", Input: "ab"}))

	_, err := newEncrypted(t, underlying, generateKey(t)).Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, newEncrypted(t, NewMockStore(), generateKey(t)))
}

func TestWrap_RedactThenEncrypt(t *testing.T) {
	redact, err := middleware.NewRedactMiddleware(`[0-9]`)
	require.NoError(t, err)
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	underlying := NewMockStore()
	store := middleware.Wrap(underlying, redact, encrypt)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "r", Input: "a1b"}))
	assert.Empty(t, underlying.data["r"].Input)

	loaded, err := store.Load(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, "a*b", loaded.Input)
}
